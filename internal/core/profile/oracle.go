package profile

import "context"

// Turn 一條帶角色標記的對話記錄
type Turn struct {
	Role    string `json:"role"` // user 或 assistant
	Content string `json:"content"`
}

// Extraction 畫像抽取結果
type Extraction struct {
	Profile      CustomerProfile `json:"profile"`
	NeedMore     bool            `json:"need_more"`
	NextQuestion string          `json:"next_question"`
}

// Oracle 畫像抽取契約：對話歷史 + 當前畫像快照 → 更新後畫像與是否需追問。
// 抽取本身由外部模型完成；調用失敗或輸出不可解析時，
// 調用方保留舊畫像並按 need_more=false 繼續（降級不中斷）。
type Oracle interface {
	Extract(ctx context.Context, turns []Turn, current CustomerProfile) (Extraction, error)
}
