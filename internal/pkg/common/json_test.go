package common

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced json",
			in:   "说明文字\n```json\n{\"a\": 1}\n```\n收尾",
			want: `{"a": 1}`,
		},
		{
			name: "fenced without language tag",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare object with prose around",
			in:   `这是结果 {"a": {"b": 2}} 请查收`,
			want: `{"a": {"b": 2}}`,
		},
		{
			name: "no json at all",
			in:   "  没有结构化内容  ",
			want: "没有结构化内容",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONObject(tt.in); got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuoteJSONKeys(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{profile: {num_guests: 2}}`, `{"profile": {"num_guests": 2}}`},
		{`{"already": 1}`, `{"already": 1}`},
		{`{mixed: 1, "quoted": 2}`, `{"mixed": 1, "quoted": 2}`},
	}
	for _, tt := range tests {
		if got := QuoteJSONKeys(tt.in); got != tt.want {
			t.Errorf("QuoteJSONKeys(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	if err := ParseJSON(`{"a":1}{"b":2}`, &v); err == nil {
		t.Fatal("expected error for trailing JSON data")
	}
	if err := ParseJSON(`{"a":1}`, &v); err != nil {
		t.Fatalf("valid JSON rejected: %v", err)
	}
}

func TestStringSliceToString(t *testing.T) {
	if got := StringSliceToString([]string{"蒜泥", "香油"}); got != "蒜泥、香油" {
		t.Errorf("got %q", got)
	}
	if got := StringSliceToString(nil); got != "" {
		t.Errorf("got %q", got)
	}
}
