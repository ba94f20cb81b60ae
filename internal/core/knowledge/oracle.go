package knowledge

import (
	"context"

	"hotpot-concierge/internal/core/llm"
)

// Oracle 知識問答契約。檢索與重排序子系統在本服務之外，
// 這裡只定義消費端契約：問題 → 答案文本。
type Oracle interface {
	Answer(ctx context.Context, question string) (string, error)
}

const answerSystemPrompt = `你是火锅店的知识顾问，回答食材、锅底、蘸料、健康与用餐礼仪相关的问题。
回答要简短、准确；不知道就说不知道，不要编造。`

// Answerer 基於 LLM 的知識問答實現
type Answerer struct {
	client *llm.Client
}

// NewAnswerer 創建知識問答器
func NewAnswerer(client *llm.Client) *Answerer {
	return &Answerer{client: client}
}

var _ Oracle = (*Answerer)(nil)

// Answer 調用模型回答知識類問題
func (a *Answerer) Answer(ctx context.Context, question string) (string, error) {
	return a.client.Chat(ctx, answerSystemPrompt, question)
}
