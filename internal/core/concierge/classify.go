package concierge

import (
	"strings"
	"unicode/utf8"
)

// 確認關鍵詞：整句等於其中之一，或包含核心確認詞
var confirmKeywords = map[string]bool{
	"确认": true, "可以": true, "就这些": true, "好的": true, "行": true,
	"ok": true, "yes": true, "confirm": true, "sure": true,
}

var confirmSubstrings = []string{"确认", "可以", "就这些"}

// 知識類問題關鍵詞啟發式
var knowledgeKeywords = []string{
	"是什么", "什么是", "怎么", "如何", "为什么", "适合", "区别",
	"技巧", "注意", "热量", "健康", "营养", "过敏", "禁忌",
	"多久", "几分钟", "礼仪", "知识", "介绍", "推荐理由",
	"蘸料", "dipping", "how", "what", "why", "recommend",
	"allergy", "healthy", "calorie", "tip",
}

// 短於 4 個字符的消息不視為知識類問題
const minKnowledgeQueryLen = 4

// IsConfirm 判斷消息是否為確認下單
func IsConfirm(msg string) bool {
	t := strings.ToLower(strings.TrimSpace(msg))
	if confirmKeywords[t] {
		return true
	}
	for _, kw := range confirmSubstrings {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// IsKnowledgeQuery 判斷消息是否為知識類問題（而非點餐流程）
func IsKnowledgeQuery(msg string) bool {
	t := strings.ToLower(strings.TrimSpace(msg))
	if utf8.RuneCountInString(t) < minKnowledgeQueryLen {
		return false
	}
	for _, kw := range knowledgeKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
