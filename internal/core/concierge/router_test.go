package concierge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hotpot-concierge/internal/core/knowledge"
	"hotpot-concierge/internal/core/menu"
	"hotpot-concierge/internal/core/order"
	"hotpot-concierge/internal/core/profile"
	"hotpot-concierge/internal/core/recommend"
	"hotpot-concierge/internal/core/sauce"
	"hotpot-concierge/internal/core/session"
)

const (
	repoMenuPath  = "../../../data/hotpot_menu.json"
	repoRulesPath = "../../../data/sauce_pairing_rules.json"
)

type stubProfileOracle struct {
	ext profile.Extraction
	err error
}

func (s *stubProfileOracle) Extract(_ context.Context, _ []profile.Turn, _ profile.CustomerProfile) (profile.Extraction, error) {
	return s.ext, s.err
}

type stubKnowledgeOracle struct {
	answer string
	err    error
	calls  int
}

func (s *stubKnowledgeOracle) Answer(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.answer, s.err
}

var _ profile.Oracle = (*stubProfileOracle)(nil)
var _ knowledge.Oracle = (*stubKnowledgeOracle)(nil)

type testEnv struct {
	router *Router
	store  *session.MemoryStore
}

func newTestEnv(t *testing.T, po profile.Oracle, ko knowledge.Oracle) *testEnv {
	t.Helper()

	catalog, err := menu.Load(repoMenuPath)
	if err != nil {
		t.Fatalf("load menu: %v", err)
	}
	table, err := sauce.LoadRules(repoRulesPath)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	sauceEngine := sauce.NewEngine(table, catalog)
	store := session.NewMemoryStore(time.Hour, 0)
	t.Cleanup(store.Close)

	if po == nil {
		po = profile.NewHeuristicExtractor()
	}
	if ko == nil {
		ko = knowledge.NewFAQ()
	}

	r := NewRouter(
		catalog,
		recommend.NewEngine(catalog),
		recommend.NewParser(catalog),
		order.NewAssembler(catalog, sauceEngine),
		po, ko, store,
	)
	return &testEnv{router: r, store: store}
}

// seedReviewing 預置一個已有推薦方案、可編輯狀態的 session
func (e *testEnv) seedReviewing(t *testing.T, sessionID string, cart []string) {
	t.Helper()
	st := session.NewState(sessionID)
	st.Profile.NumGuests = 2
	st.HasProfile = true
	st.Cart = append([]string(nil), cart...)
	st.CurrentStep = session.StepReviewing
	if err := e.store.Set(context.Background(), sessionID, st); err != nil {
		t.Fatal(err)
	}
}

func TestHandleTurnEmptyMessage(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	res := env.router.HandleTurn(context.Background(), TurnRequest{Message: "   "})
	if res.Source != SourceSystem {
		t.Errorf("source = %q, want system", res.Source)
	}
	if res.Reply != "请输入您的需求。" {
		t.Errorf("reply = %q", res.Reply)
	}
	if res.SessionID == "" {
		t.Error("session id should always be assigned")
	}
}

func TestHandleTurnFollowUpQuestion(t *testing.T) {
	po := &stubProfileOracle{ext: profile.Extraction{
		Profile:      profile.Default(),
		NeedMore:     true,
		NextQuestion: "请问今天几位用餐？",
	}}
	env := newTestEnv(t, po, nil)

	res := env.router.HandleTurn(context.Background(), TurnRequest{Message: "想吃火锅"})
	if res.Reply != "请问今天几位用餐？" || res.Source != SourceConcierge {
		t.Fatalf("result = %+v", res)
	}

	st, found, _ := env.store.Get(context.Background(), res.SessionID)
	if !found {
		t.Fatal("session not persisted")
	}
	if st.CurrentStep != session.StepCollecting {
		t.Errorf("step = %q, want collecting", st.CurrentStep)
	}
	if len(st.Cart) != 0 {
		t.Errorf("cart should stay empty, got %v", st.Cart)
	}
}

func TestHandleTurnRecommendation(t *testing.T) {
	p := profile.Default()
	p.NumGuests = 2
	p.SpiceTolerance = profile.SpiceHigh
	po := &stubProfileOracle{ext: profile.Extraction{Profile: p}}
	env := newTestEnv(t, po, nil)

	res := env.router.HandleTurn(context.Background(), TurnRequest{Message: "两个人，重辣"})
	if res.Source != SourceConcierge {
		t.Fatalf("source = %q", res.Source)
	}
	if !strings.Contains(res.Reply, "预估总价") {
		t.Errorf("reply missing total estimate: %q", res.Reply)
	}
	if !strings.Contains(res.Reply, "确认") {
		t.Errorf("reply missing confirm invitation: %q", res.Reply)
	}

	st, found, _ := env.store.Get(context.Background(), res.SessionID)
	if !found {
		t.Fatal("session not persisted")
	}
	if len(st.Cart) != 10 {
		t.Errorf("cart = %d items, want 10 for 2 guests", len(st.Cart))
	}
	if st.CurrentStep != session.StepReviewing {
		t.Errorf("step = %q, want reviewing", st.CurrentStep)
	}
	// 重辣默認川味辣鍋
	if len(st.Profile.Broths) != 1 || st.Profile.Broths[0].BrothID != "szechwan_spicy" {
		t.Errorf("broths = %+v", st.Profile.Broths)
	}
}

func TestHandleTurnConfirm(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.seedReviewing(t, "s1", []string{"beef_sliced", "bean_sprouts"})

	res := env.router.HandleTurn(context.Background(), TurnRequest{SessionID: "s1", Message: "确认"})
	if res.Order == nil {
		t.Fatal("confirm should produce a structured order")
	}
	if res.Source != SourceConcierge {
		t.Errorf("source = %q", res.Source)
	}
	if len(res.Order.Items) != 2 {
		t.Errorf("order items = %d, want 2", len(res.Order.Items))
	}
	if res.Order.NumGuests != 2 {
		t.Errorf("num_guests = %d, want 2", res.Order.NumGuests)
	}
	if len(res.Order.DippingSauceRecipe) == 0 {
		t.Error("order missing dipping sauce")
	}

	st, _, _ := env.store.Get(context.Background(), "s1")
	if st.LastOrder == nil {
		t.Error("last order not stored on session")
	}
	// 確認是動作而非終態，session 停留在可編輯狀態
	if st.CurrentStep != session.StepReviewing {
		t.Errorf("step = %q, want reviewing", st.CurrentStep)
	}
}

// 同時含確認詞與購物車編輯詞時，確認優先
func TestHandleTurnConfirmBeatsCartEdit(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.seedReviewing(t, "s1", []string{"beef_sliced", "shrimp_ball"})

	res := env.router.HandleTurn(context.Background(), TurnRequest{SessionID: "s1", Message: "就这些，不要虾丸"})
	if res.Order == nil {
		t.Fatal("expected confirm path to win")
	}

	st, _, _ := env.store.Get(context.Background(), "s1")
	if !st.InCart("shrimp_ball") {
		t.Error("cart should be untouched when confirm wins")
	}
}

func TestHandleTurnCartAdd(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.seedReviewing(t, "s1", []string{"bean_sprouts"})

	res := env.router.HandleTurn(context.Background(), TurnRequest{SessionID: "s1", Message: "再加一份毛肚"})
	if !strings.Contains(res.Reply, "已添加") || !strings.Contains(res.Reply, "毛肚") {
		t.Errorf("reply = %q", res.Reply)
	}

	st, _, _ := env.store.Get(context.Background(), "s1")
	if !st.InCart("beef_tripe") {
		t.Errorf("cart = %v", st.Cart)
	}

	// 重復添加為 no-op
	env.router.HandleTurn(context.Background(), TurnRequest{SessionID: "s1", Message: "再加一份毛肚"})
	st, _, _ = env.store.Get(context.Background(), "s1")
	if len(st.Cart) != 2 {
		t.Errorf("cart = %v, duplicate add should not grow it", st.Cart)
	}
}

func TestHandleTurnCartRemove(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.seedReviewing(t, "s1", []string{"bean_sprouts", "shrimp_ball"})

	res := env.router.HandleTurn(context.Background(), TurnRequest{SessionID: "s1", Message: "不要虾丸"})
	if !strings.Contains(res.Reply, "已去掉") {
		t.Errorf("reply = %q", res.Reply)
	}
	st, _, _ := env.store.Get(context.Background(), "s1")
	if st.InCart("shrimp_ball") {
		t.Errorf("cart = %v", st.Cart)
	}

	// 移除不存在的食材
	res = env.router.HandleTurn(context.Background(), TurnRequest{SessionID: "s1", Message: "去掉鱼豆腐"})
	if res.Reply != "当前列表中没有该食材。" {
		t.Errorf("reply = %q", res.Reply)
	}
	st, _, _ = env.store.Get(context.Background(), "s1")
	if len(st.Cart) != 1 {
		t.Errorf("cart = %v, want unchanged", st.Cart)
	}
}

func TestHandleTurnKnowledgeDoesNotTouchSession(t *testing.T) {
	ko := &stubKnowledgeOracle{answer: "毛肚涮 10-15 秒即可。"}
	env := newTestEnv(t, nil, ko)

	res := env.router.HandleTurn(context.Background(), TurnRequest{Message: "毛肚涮多久比较好"})
	if res.Source != SourceKnowledge {
		t.Fatalf("source = %q", res.Source)
	}
	if res.Reply != "毛肚涮 10-15 秒即可。" {
		t.Errorf("reply = %q", res.Reply)
	}
	if ko.calls != 1 {
		t.Errorf("oracle calls = %d, want 1", ko.calls)
	}

	// 知識路徑不落盤 session
	if _, found, _ := env.store.Get(context.Background(), res.SessionID); found {
		t.Error("knowledge turn should not persist session state")
	}
}

func TestHandleTurnKnowledgeError(t *testing.T) {
	ko := &stubKnowledgeOracle{err: errors.New("upstream down")}
	env := newTestEnv(t, nil, ko)

	res := env.router.HandleTurn(context.Background(), TurnRequest{Message: "鸳鸯锅是什么"})
	if res.Source != SourceKnowledge {
		t.Errorf("source = %q", res.Source)
	}
	if !strings.Contains(res.Reply, "换个问法") {
		t.Errorf("expected apologetic reply, got %q", res.Reply)
	}
}

// 畫像抽取失敗時不中斷：沿用舊畫像直接出方案
func TestHandleTurnProfileOracleFailure(t *testing.T) {
	po := &stubProfileOracle{err: errors.New("model timeout")}
	env := newTestEnv(t, po, nil)

	res := env.router.HandleTurn(context.Background(), TurnRequest{Message: "随便来一桌"})
	if res.Source != SourceConcierge {
		t.Fatalf("source = %q", res.Source)
	}
	st, found, _ := env.store.Get(context.Background(), res.SessionID)
	if !found {
		t.Fatal("session not persisted")
	}
	// 默認 1 人 8 樣
	if len(st.Cart) != 8 {
		t.Errorf("cart = %d items, want 8", len(st.Cart))
	}
}

func TestHandleTurnOverrides(t *testing.T) {
	p := profile.Default()
	p.NumGuests = 3
	po := &stubProfileOracle{ext: profile.Extraction{Profile: p}}
	env := newTestEnv(t, po, nil)

	guests := 99
	res := env.router.HandleTurn(context.Background(), TurnRequest{
		Message:   "三个人",
		NumGuests: &guests,
		Allergies: []string{" 海鲜 ", ""},
		BrothSelections: []BrothSelection{
			{NameCN: "鸳鸯锅", Quantity: 1},
			{NameCN: "不存在的锅", Quantity: 1},
			{NameCN: "番茄浓汤锅", Quantity: 0},
		},
	})

	st, found, _ := env.store.Get(context.Background(), res.SessionID)
	if !found {
		t.Fatal("session not persisted")
	}
	// 鍋底覆蓋在畫像抽取後保留
	if len(st.Profile.Broths) != 1 || st.Profile.Broths[0].BrothID != "yinyang" {
		t.Errorf("broths = %+v", st.Profile.Broths)
	}
	for _, id := range st.Cart {
		it, _ := env.router.catalog.IngredientByID(id)
		if recommend.IngredientHasAllergen(it, recommend.AllergySeafood) {
			t.Errorf("seafood item %s leaked into cart", id)
		}
	}
}

func TestHandleTurnGuestOverrideClamped(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	guests := 42
	res := env.router.HandleTurn(context.Background(), TurnRequest{
		SessionID: "s1",
		Message:   "",
		NumGuests: &guests,
	})
	_ = res
	st, found, _ := env.store.Get(context.Background(), "s1")
	if !found {
		t.Fatal("override merge should persist session even for empty message")
	}
	if st.Profile.NumGuests != 6 {
		t.Errorf("guests = %d, want clamp to 6", st.Profile.NumGuests)
	}
}

// 知識路徑對已落盤的 session 同樣零寫入：對話記錄與購物車都不得變化
func TestHandleTurnKnowledgeLeavesStoredSessionUntouched(t *testing.T) {
	ko := &stubKnowledgeOracle{answer: "鸳鸯锅是一半辣一半不辣的双格锅。"}
	env := newTestEnv(t, nil, ko)
	env.seedReviewing(t, "s1", []string{"beef_sliced", "shrimp_ball"})

	res := env.router.HandleTurn(context.Background(), TurnRequest{
		SessionID: "s1",
		Message:   "鸳鸯锅是什么",
	})
	if res.Source != SourceKnowledge {
		t.Fatalf("source = %q", res.Source)
	}

	st, found, _ := env.store.Get(context.Background(), "s1")
	if !found {
		t.Fatal("seeded session missing")
	}
	if len(st.Turns) != 0 {
		t.Errorf("stored turns grew on knowledge turn: %v", st.Turns)
	}
	if len(st.Cart) != 2 {
		t.Errorf("cart = %v, want unchanged", st.Cart)
	}
	if st.CurrentStep != session.StepReviewing {
		t.Errorf("step = %q, want reviewing", st.CurrentStep)
	}
}
