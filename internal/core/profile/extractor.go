package profile

import (
	"context"
	"fmt"
	"strings"

	"hotpot-concierge/internal/core/llm"
	"hotpot-concierge/internal/pkg/common"
)

const extractorSystemPrompt = `你是火锅店点餐顾问。根据用户至今的发言，更新并输出客户画像（JSON），并判断是否还需要追问。
画像字段：
  spice_tolerance: none / mild / medium / high（注意：用户说'变态辣'应映射为 high）
  allergies: 忌口/过敏列表
  dislikes: 不喜欢的食材或口感列表
  preferences: 偏好列表（如 crunchy, tender, seafood）
  budget_max: 数字或 0（如用户说'预算150'，则为 150）
  num_guests: 用餐人数（整数）
  language: zh / en
判断规则：若用户已给出辣度、人数、忌口（哪怕没有忌口也算明确），则 need_more=false。
只输出一个 JSON 对象，包含 key：profile、need_more、next_question。`

// 只取最近的對話輪次送入模型
const maxHistoryTurns = 10

// Extractor 基於 LLM 的畫像抽取 Oracle 實現
type Extractor struct {
	client *llm.Client
}

// NewExtractor 創建畫像抽取器
func NewExtractor(client *llm.Client) *Extractor {
	return &Extractor{client: client}
}

var _ Oracle = (*Extractor)(nil)

// Extract 發送對話歷史與當前畫像，解析模型輸出為 Extraction
func (e *Extractor) Extract(ctx context.Context, turns []Turn, current CustomerProfile) (Extraction, error) {
	if len(turns) > maxHistoryTurns {
		turns = turns[len(turns)-maxHistoryTurns:]
	}

	var sb strings.Builder
	sb.WriteString("对话历史：\n")
	for _, t := range turns {
		sb.WriteString(fmt.Sprintf("%s: %s\n", t.Role, t.Content))
	}
	currentJSON, err := common.ToJSON(current)
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to encode current profile: %w", err)
	}
	sb.WriteString(fmt.Sprintf("\n当前画像：%s\n", currentJSON))
	sb.WriteString("\n请输出 JSON（profile, need_more, next_question）：")

	text, err := e.client.Chat(ctx, extractorSystemPrompt, sb.String())
	if err != nil {
		return Extraction{}, err
	}

	raw := common.QuoteJSONKeys(common.ExtractJSONObject(text))
	var out Extraction
	if err := common.ParseJSON(raw, &out); err != nil {
		return Extraction{}, fmt.Errorf("unparsable extraction output: %w", err)
	}
	out.Profile.Normalize()
	return out, nil
}
