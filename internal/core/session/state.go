package session

import (
	"hotpot-concierge/internal/core/order"
	"hotpot-concierge/internal/core/profile"
)

// Step 對話階段
type Step string

const (
	StepCollecting   Step = "collecting"   // 畫像未齊，追問中
	StepRecommending Step = "recommending" // 剛生成推薦方案
	StepReviewing    Step = "reviewing"    // 方案可編輯的穩定態；確認是動作而非終態
)

// State 單個對話 session 的全部可變狀態
type State struct {
	SessionID   string                  `json:"session_id"`
	Profile     profile.CustomerProfile `json:"profile"`
	HasProfile  bool                    `json:"has_profile"`
	Cart        []string                `json:"cart"`
	Turns       []profile.Turn          `json:"turns"`
	CurrentStep Step                    `json:"current_step"`
	LastOrder   *order.Order            `json:"last_order,omitempty"`
}

// NewState 創建帶空畫像的新 session 狀態
func NewState(sessionID string) *State {
	return &State{
		SessionID:   sessionID,
		Profile:     profile.Default(),
		CurrentStep: StepCollecting,
	}
}

// Clone 深拷貝 session 狀態。存儲層靠它隔離未持久化的修改
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Cart = append([]string(nil), s.Cart...)
	cp.Turns = append([]profile.Turn(nil), s.Turns...)
	cp.Profile.Allergies = append([]string(nil), s.Profile.Allergies...)
	cp.Profile.Dislikes = append([]string(nil), s.Profile.Dislikes...)
	cp.Profile.Preferences = append([]string(nil), s.Profile.Preferences...)
	cp.Profile.Broths = append([]profile.BrothChoice(nil), s.Profile.Broths...)
	if s.LastOrder != nil {
		o := *s.LastOrder
		o.Broths = append([]order.BrothLine(nil), s.LastOrder.Broths...)
		o.Items = append([]order.ItemLine(nil), s.LastOrder.Items...)
		o.DippingSauceRecipe = append([]string(nil), s.LastOrder.DippingSauceRecipe...)
		cp.LastOrder = &o
	}
	return &cp
}

// InCart 檢查食材是否已在購物車中
func (s *State) InCart(itemID string) bool {
	for _, id := range s.Cart {
		if id == itemID {
			return true
		}
	}
	return false
}

// AddToCart 按插入順序加入購物車；已存在時為 no-op，返回 false
func (s *State) AddToCart(itemID string) bool {
	if s.InCart(itemID) {
		return false
	}
	s.Cart = append(s.Cart, itemID)
	return true
}

// RemoveFromCart 從購物車移除；不存在時返回 false
func (s *State) RemoveFromCart(itemID string) bool {
	for i, id := range s.Cart {
		if id == itemID {
			s.Cart = append(s.Cart[:i], s.Cart[i+1:]...)
			return true
		}
	}
	return false
}

// AppendTurn 追加一條對話記錄
func (s *State) AppendTurn(role, content string) {
	s.Turns = append(s.Turns, profile.Turn{Role: role, Content: content})
}
