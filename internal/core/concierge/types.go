package concierge

import "hotpot-concierge/internal/core/order"

// 回覆來源
const (
	SourceConcierge = "concierge"
	SourceKnowledge = "knowledge"
	SourceSystem    = "system"
)

// BrothSelection 請求中的鍋底選項（中文名 + 份數）
type BrothSelection struct {
	NameCN   string `json:"name_cn"`
	Quantity int    `json:"quantity"`
}

// TurnRequest 一輪對話的入參；可選字段在到達時合併進 session 畫像
type TurnRequest struct {
	SessionID       string
	Message         string
	NumGuests       *int
	Allergies       []string
	BrothSelections []BrothSelection
}

// TurnResult 一輪對話的出參
type TurnResult struct {
	SessionID string       `json:"session_id"`
	Reply     string       `json:"reply"`
	Source    string       `json:"source"`
	Order     *order.Order `json:"order,omitempty"`
}
