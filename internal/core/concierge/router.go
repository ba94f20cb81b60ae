package concierge

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"hotpot-concierge/internal/core/knowledge"
	"hotpot-concierge/internal/core/menu"
	"hotpot-concierge/internal/core/order"
	"hotpot-concierge/internal/core/profile"
	"hotpot-concierge/internal/core/recommend"
	"hotpot-concierge/internal/core/session"
	"hotpot-concierge/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	minGuests = 1
	maxGuests = 6
)

// Router 對話路由器：持有各引擎，按優先級決定每輪消息的處理路徑。
// 路徑優先級：確認下單 → 購物車增減 → 知識問答 → 畫像抽取/推薦。
type Router struct {
	catalog     *menu.Catalog
	recommender *recommend.Engine
	parser      *recommend.Parser
	assembler   *order.Assembler
	profiles    profile.Oracle
	knowledge   knowledge.Oracle
	store       session.Store

	locks sync.Map // sessionID -> *sync.Mutex，序列化同一 session 的讀改寫
}

// NewRouter 創建對話路由器
func NewRouter(
	catalog *menu.Catalog,
	recommender *recommend.Engine,
	parser *recommend.Parser,
	assembler *order.Assembler,
	profiles profile.Oracle,
	knowledgeOracle knowledge.Oracle,
	store session.Store,
) *Router {
	return &Router{
		catalog:     catalog,
		recommender: recommender,
		parser:      parser,
		assembler:   assembler,
		profiles:    profiles,
		knowledge:   knowledgeOracle,
		store:       store,
	}
}

func (r *Router) lockFor(sessionID string) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// HandleTurn 處理一輪對話。任何失敗都降級為道歉回覆，不中斷請求
func (r *Router) HandleTurn(ctx context.Context, req TurnRequest) TurnResult {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = common.GenerateUUID()
	}

	mu := r.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	st, found, err := r.store.Get(ctx, sessionID)
	if err != nil {
		common.LogError("讀取 session 失敗", zap.String("session_id", sessionID), zap.Error(err))
		found = false
	}
	if !found {
		st = session.NewState(sessionID)
	}

	if r.mergeOverrides(st, req) {
		r.persist(ctx, st)
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return TurnResult{SessionID: sessionID, Reply: "请输入您的需求。", Source: SourceSystem}
	}
	st.AppendTurn("user", msg)

	// ① 已有方案 + 確認 → 生成結構化訂單；確認是動作，session 停留在 reviewing
	if len(st.Cart) > 0 && st.HasProfile && IsConfirm(msg) {
		ord := r.assembler.Assemble(st.Profile, st.Cart)
		st.LastOrder = &ord
		st.CurrentStep = session.StepReviewing
		reply := "已按您的要求生成订单，如下可交厨房执行 ✅"
		st.AppendTurn("assistant", reply)
		r.persist(ctx, st)
		return TurnResult{SessionID: sessionID, Reply: reply, Source: SourceConcierge, Order: &ord}
	}

	// ② 已有方案 + 增減食材 → 直接改購物車
	if len(st.Cart) > 0 && st.HasProfile {
		if res, handled := r.tryCartMutation(ctx, st, msg); handled {
			return res
		}
	}

	// ③ 知識類問題 → 委託知識 Oracle，不改動 session 狀態
	if IsKnowledgeQuery(msg) {
		answer, err := r.knowledge.Answer(ctx, msg)
		if err != nil {
			common.LogError("知識問答失敗", zap.String("session_id", sessionID), zap.Error(err))
			return TurnResult{SessionID: sessionID, Reply: "知识检索出了点问题，请换个问法试试。", Source: SourceKnowledge}
		}
		return TurnResult{SessionID: sessionID, Reply: answer, Source: SourceKnowledge}
	}

	// ④ 畫像抽取 → 追問或生成推薦方案
	return r.runProfilePipeline(ctx, st, msg)
}

// mergeOverrides 把請求級上下文（人數、過敏、鍋底選項）合併進畫像
func (r *Router) mergeOverrides(st *session.State, req TurnRequest) bool {
	merged := false
	if req.NumGuests != nil {
		n := *req.NumGuests
		if n < minGuests {
			n = minGuests
		}
		if n > maxGuests {
			n = maxGuests
		}
		st.Profile.NumGuests = n
		merged = true
	}
	if req.Allergies != nil {
		var cleaned []string
		for _, a := range req.Allergies {
			if a = strings.TrimSpace(a); a != "" {
				cleaned = append(cleaned, a)
			}
		}
		st.Profile.Allergies = cleaned
		merged = true
	}
	if req.BrothSelections != nil {
		var choices []profile.BrothChoice
		for _, sel := range req.BrothSelections {
			if sel.Quantity <= 0 {
				continue
			}
			b, ok := r.catalog.BrothByNameCN(sel.NameCN)
			if !ok {
				continue
			}
			choices = append(choices, profile.BrothChoice{
				BrothID:  b.ID,
				NameCN:   b.NameCN,
				NameEN:   b.NameEN,
				Quantity: sel.Quantity,
			})
		}
		st.Profile.Broths = choices
		merged = true
	}
	if merged {
		st.HasProfile = true
	}
	return merged
}

// tryCartMutation 嘗試把消息解析為購物車增減；解析出有效目標時完成變更並回覆
func (r *Router) tryCartMutation(ctx context.Context, st *session.State, msg string) (TurnResult, bool) {
	itemID, isAdd, _ := r.parser.Parse(msg)
	if itemID == "" || !r.catalog.HasIngredient(itemID) {
		return TurnResult{}, false
	}

	it, _ := r.catalog.IngredientByID(itemID)
	name := it.NameCN
	if name == "" {
		name = it.NameEN
	}
	if name == "" {
		name = itemID
	}

	var reply string
	if isAdd {
		st.AddToCart(itemID) // 已存在時為 no-op
		reply = "已添加「" + name + "」。当前共 " + strconv.Itoa(len(st.Cart)) + " 样食材。满意可回复「确认」下单。"
	} else {
		if st.RemoveFromCart(itemID) {
			reply = "已去掉「" + name + "」。当前共 " + strconv.Itoa(len(st.Cart)) + " 样食材。"
		} else {
			reply = "当前列表中没有该食材。"
		}
	}

	st.CurrentStep = session.StepReviewing
	st.AppendTurn("assistant", reply)
	r.persist(ctx, st)
	return TurnResult{SessionID: st.SessionID, Reply: reply, Source: SourceConcierge}, true
}

// runProfilePipeline 調用畫像抽取 Oracle；失敗時保留舊畫像並繼續（降級不中斷）
func (r *Router) runProfilePipeline(ctx context.Context, st *session.State, msg string) TurnResult {
	ext, err := r.profiles.Extract(ctx, st.Turns, st.Profile)
	if err != nil {
		common.LogWarn("畫像抽取失敗，沿用舊畫像繼續",
			zap.String("session_id", st.SessionID),
			zap.Error(err),
		)
		ext = profile.Extraction{Profile: st.Profile}
	} else {
		// 抽取輸出不含鍋底選項，保留請求合併進來的選擇
		if len(ext.Profile.Broths) == 0 {
			ext.Profile.Broths = st.Profile.Broths
		}
		// 已申報的過敏原絕不因一次抽取缺失而丟掉
		if len(ext.Profile.Allergies) == 0 {
			ext.Profile.Allergies = st.Profile.Allergies
		}
	}
	st.Profile = ext.Profile
	st.Profile.Normalize()
	st.HasProfile = true

	if ext.NeedMore && ext.NextQuestion != "" {
		st.CurrentStep = session.StepCollecting
		st.AppendTurn("assistant", ext.NextQuestion)
		r.persist(ctx, st)
		return TurnResult{SessionID: st.SessionID, Reply: ext.NextQuestion, Source: SourceConcierge}
	}

	// 畫像齊了：生成推薦方案並進入可編輯狀態
	st.CurrentStep = session.StepRecommending
	items := r.recommender.RecommendItems(st.Profile.NumGuests, st.Profile.Allergies)
	cart := make([]string, 0, len(items))
	for _, it := range items {
		cart = append(cart, it.ID)
	}
	st.Cart = cart

	if len(st.Profile.Broths) == 0 {
		bid := recommend.DefaultBrothID(st.Profile.SpiceTolerance)
		choice := profile.BrothChoice{BrothID: bid, Quantity: 1}
		if b, ok := r.catalog.BrothByID(bid); ok {
			choice.NameCN = b.NameCN
			choice.NameEN = b.NameEN
		}
		st.Profile.Broths = []profile.BrothChoice{choice}
	}

	reply := buildPlanSummary(r.catalog, st)
	st.CurrentStep = session.StepReviewing
	st.AppendTurn("assistant", reply)
	r.persist(ctx, st)
	return TurnResult{SessionID: st.SessionID, Reply: reply, Source: SourceConcierge}
}

func (r *Router) persist(ctx context.Context, st *session.State) {
	if err := r.store.Set(ctx, st.SessionID, st); err != nil {
		common.LogError("寫入 session 失敗",
			zap.String("session_id", st.SessionID),
			zap.Error(err),
		)
	}
}
