package concierge

import (
	"context"
	"strconv"
	"strings"

	"hotpot-concierge/internal/core/profile"
	"hotpot-concierge/internal/core/recommend"
	"hotpot-concierge/internal/core/session"
	"hotpot-concierge/internal/pkg/common"
)

// RecommendRequest 一鍵推薦入參
type RecommendRequest struct {
	SessionID string   `json:"session_id"`
	NumGuests int      `json:"num_guests"`
	Allergies []string `json:"allergies"`
}

// RecommendedItem 推薦清單中的一項
type RecommendedItem struct {
	ID       string  `json:"id"`
	NameCN   string  `json:"name_cn"`
	NameEN   string  `json:"name_en"`
	Category string  `json:"category"`
	Portion  float64 `json:"portion"`
	Checked  bool    `json:"checked"`
}

// RecommendResult 一鍵推薦出參：勾選清單 + 全量可選清單 + 摘要
type RecommendResult struct {
	SessionID string            `json:"session_id"`
	NumGuests int               `json:"num_guests"`
	Items     []RecommendedItem `json:"items"`
	AllItems  []RecommendedItem `json:"all_items"`
	Total     float64           `json:"total_estimate"`
	Message   string            `json:"message"`
}

// CartUpdateResult 購物車整體覆寫的出參
type CartUpdateResult struct {
	SessionID string   `json:"session_id"`
	Cart      []string `json:"cart"`
	Message   string   `json:"message"`
}

// Recommend 跳過對話直接生成推薦方案：創建或覆寫 session，
// 畫像取默認中辣，鍋底按辣度取默認
func (r *Router) Recommend(ctx context.Context, req RecommendRequest) RecommendResult {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = common.GenerateUUID()
	}

	mu := r.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	numGuests := req.NumGuests
	if numGuests < minGuests {
		numGuests = minGuests
	}
	if numGuests > maxGuests {
		numGuests = maxGuests
	}

	var allergies []string
	for _, a := range req.Allergies {
		if a = strings.TrimSpace(a); a != "" {
			allergies = append(allergies, a)
		}
	}

	st := session.NewState(sessionID)
	st.Profile = profile.Default()
	st.Profile.NumGuests = numGuests
	st.Profile.Allergies = allergies
	st.HasProfile = true

	bid := recommend.DefaultBrothID(st.Profile.SpiceTolerance)
	choice := profile.BrothChoice{BrothID: bid, Quantity: 1}
	if b, ok := r.catalog.BrothByID(bid); ok {
		choice.NameCN = b.NameCN
		choice.NameEN = b.NameEN
	}
	st.Profile.Broths = []profile.BrothChoice{choice}

	selected := r.recommender.RecommendItems(numGuests, allergies)
	cart := make([]string, 0, len(selected))
	checked := make(map[string]bool, len(selected))
	items := make([]RecommendedItem, 0, len(selected))
	for _, it := range selected {
		cart = append(cart, it.ID)
		checked[it.ID] = true
		items = append(items, RecommendedItem{
			ID:       it.ID,
			NameCN:   it.NameCN,
			NameEN:   it.NameEN,
			Category: string(it.Category),
			Portion:  it.PortionPerPerson,
			Checked:  true,
		})
	}
	st.Cart = cart

	// 全量清單：完整人氣清單在前（含未勾選部分），其餘可選項（已按過敏過濾）在後
	curated := r.recommender.CuratedItems(allergies)
	allItems := make([]RecommendedItem, 0, len(curated))
	inDisplay := make(map[string]bool, len(curated))
	for _, it := range curated {
		inDisplay[it.ID] = true
		allItems = append(allItems, RecommendedItem{
			ID:       it.ID,
			NameCN:   it.NameCN,
			NameEN:   it.NameEN,
			Category: string(it.Category),
			Portion:  it.PortionPerPerson,
			Checked:  checked[it.ID],
		})
	}
	for _, it := range r.recommender.EligibleIngredients(allergies) {
		if inDisplay[it.ID] {
			continue
		}
		allItems = append(allItems, RecommendedItem{
			ID:       it.ID,
			NameCN:   it.NameCN,
			NameEN:   it.NameEN,
			Category: string(it.Category),
			Portion:  it.PortionPerPerson,
		})
	}

	ord := r.assembler.Assemble(st.Profile, st.Cart)
	st.LastOrder = &ord
	st.CurrentStep = session.StepReviewing
	r.persist(ctx, st)

	return RecommendResult{
		SessionID: sessionID,
		NumGuests: numGuests,
		Items:     items,
		AllItems:  allItems,
		Total:     ord.TotalEstimate,
		Message:   buildPlanSummary(r.catalog, st),
	}
}

// UpdateCart 按勾選結果整體覆寫購物車；未知食材 ID 直接丟棄
func (r *Router) UpdateCart(ctx context.Context, sessionID string, cart []string) (CartUpdateResult, error) {
	mu := r.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	st, found, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return CartUpdateResult{}, err
	}
	if !found {
		return CartUpdateResult{}, common.ErrSessionNotFound
	}

	seen := make(map[string]bool, len(cart))
	cleaned := make([]string, 0, len(cart))
	for _, id := range cart {
		if id = strings.TrimSpace(id); id == "" || seen[id] {
			continue
		}
		if !r.catalog.HasIngredient(id) {
			continue
		}
		seen[id] = true
		cleaned = append(cleaned, id)
	}

	st.Cart = cleaned
	st.CurrentStep = session.StepReviewing
	r.persist(ctx, st)

	return CartUpdateResult{
		SessionID: sessionID,
		Cart:      cleaned,
		Message:   "购物车已更新，共 " + strconv.Itoa(len(cleaned)) + " 样食材。",
	}, nil
}
