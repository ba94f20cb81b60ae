package knowledge

import (
	"context"
	"strings"
)

// faqEntries 內建問答沉澱：無外部模型時按關鍵詞命中
var faqEntries = []struct {
	keywords []string
	answer   string
}{
	{
		keywords: []string{"毛肚", "涮多久", "几秒"},
		answer:   "毛肚讲究「七上八下」：夹住在滚汤里涮七八次、约 10-15 秒，边缘卷起即可，久煮会老。",
	},
	{
		keywords: []string{"肥牛", "牛肉", "涮"},
		answer:   "肥牛片下锅涮 8-15 秒、变色即可捞出，口感最嫩；久煮肉质会柴。",
	},
	{
		keywords: []string{"鸳鸯", "鸳鸯锅"},
		answer:   "鸳鸯锅是一锅双味：一半辣汤一半清汤，同桌口味不同或有小孩老人时最合适。",
	},
	{
		keywords: []string{"蘸料", "调料", "怎么调"},
		answer:   "经典川式蘸料是蒜泥 + 香油 + 香菜，解辣护胃；清汤锅可以加蚝油和小米辣提味。",
	},
	{
		keywords: []string{"热量", "卡路里", "健康"},
		answer:   "想吃得清淡些可以选清汤或番茄锅底，多点蔬菜豆制品，蘸料少放香油和麻酱。",
	},
	{
		keywords: []string{"过敏", "忌口"},
		answer:   "常见需要留意的过敏原是海鲜、花生和面筋类（面条、油面筋）。告诉我您的忌口，推荐时我会自动避开并换成同类食材。",
	},
}

const fallbackAnswer = "这个问题我还答不上来，您可以问问食材涮煮时间、锅底区别或蘸料搭配。"

// FAQ 內建知識問答：不依賴外部模型的兜底實現
type FAQ struct{}

// NewFAQ 創建內建知識問答
func NewFAQ() *FAQ {
	return &FAQ{}
}

// Answer 按關鍵詞匹配內建問答，不命中時回兜底話術
func (f *FAQ) Answer(_ context.Context, question string) (string, error) {
	q := strings.ToLower(question)
	for _, e := range faqEntries {
		for _, kw := range e.keywords {
			if strings.Contains(q, kw) {
				return e.answer, nil
			}
		}
	}
	return fallbackAnswer, nil
}
