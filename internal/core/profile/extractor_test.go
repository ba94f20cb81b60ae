package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"hotpot-concierge/internal/core/llm"
	"hotpot-concierge/internal/infrastructure/config"
)

func newStubModelServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
}

func newExtractorFor(srvURL string) *Extractor {
	return NewExtractor(llm.NewClient(&config.LLMConfig{
		BaseURL:   srvURL,
		APIKey:    "test",
		Model:     "test",
		MaxTokens: 512,
		Timeout:   5 * time.Second,
	}))
}

// 模型把 JSON 包在代碼圍欄里是常態，抽取要能剝掉
func TestExtractFencedJSON(t *testing.T) {
	content := "好的，给您更新画像：\n```json\n" +
		`{"profile":{"spice_tolerance":"high","allergies":["海鲜"],"num_guests":3,"language":"zh"},"need_more":false,"next_question":""}` +
		"\n```"
	srv := newStubModelServer(t, content)
	defer srv.Close()

	e := newExtractorFor(srv.URL)
	ext, err := e.Extract(context.Background(), []Turn{{Role: "user", Content: "3个人，重辣，海鲜过敏"}}, Default())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ext.NeedMore {
		t.Error("need_more should be false")
	}
	if ext.Profile.SpiceTolerance != SpiceHigh || ext.Profile.NumGuests != 3 {
		t.Errorf("profile = %+v", ext.Profile)
	}
	if !reflect.DeepEqual(ext.Profile.Allergies, []string{"海鲜"}) {
		t.Errorf("allergies = %v", ext.Profile.Allergies)
	}
	if ext.Profile.Language != "zh" {
		t.Errorf("language = %q", ext.Profile.Language)
	}
}

func TestExtractNeedMore(t *testing.T) {
	content := `{"profile":{"spice_tolerance":"medium","num_guests":1,"language":"zh"},"need_more":true,"next_question":"请问几位用餐？"}`
	srv := newStubModelServer(t, content)
	defer srv.Close()

	e := newExtractorFor(srv.URL)
	ext, err := e.Extract(context.Background(), []Turn{{Role: "user", Content: "想吃火锅"}}, Default())
	if err != nil {
		t.Fatal(err)
	}
	if !ext.NeedMore || ext.NextQuestion != "请问几位用餐？" {
		t.Errorf("extraction = %+v", ext)
	}
}

// 模型輸出無效畫像字段時 Normalize 兜底
func TestExtractNormalizesInvalidFields(t *testing.T) {
	content := `{"profile":{"spice_tolerance":"volcanic","num_guests":0,"language":"fr"},"need_more":false,"next_question":""}`
	srv := newStubModelServer(t, content)
	defer srv.Close()

	e := newExtractorFor(srv.URL)
	ext, err := e.Extract(context.Background(), nil, Default())
	if err != nil {
		t.Fatal(err)
	}
	if ext.Profile.SpiceTolerance != SpiceMedium {
		t.Errorf("spice = %q, want medium fallback", ext.Profile.SpiceTolerance)
	}
	if ext.Profile.NumGuests != 1 {
		t.Errorf("guests = %d, want 1", ext.Profile.NumGuests)
	}
	if ext.Profile.Language != "zh" {
		t.Errorf("language = %q, want zh fallback", ext.Profile.Language)
	}
}

func TestExtractUnparsableOutput(t *testing.T) {
	srv := newStubModelServer(t, "抱歉，我只能闲聊。")
	defer srv.Close()

	e := newExtractorFor(srv.URL)
	if _, err := e.Extract(context.Background(), nil, Default()); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}
