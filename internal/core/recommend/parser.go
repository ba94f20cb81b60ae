package recommend

import (
	"sort"
	"strings"
	"unicode/utf8"

	"hotpot-concierge/internal/core/menu"
)

// 增減意圖關鍵詞，兩組互斥檢測；同時命中時按移除處理（「不要」包含「要」）
var addKeywords = []string{"添加", "加", "再来", "来一份", "加上", "要", "多要", "再来一份"}
var removeKeywords = []string{"去掉", "不要", "删掉", "取消", "移除", "减去"}

// 菜名同義詞別名 → 食材 id；保持聲明順序以保證構建結果確定
var synonymAliases = []struct {
	Keyword string
	ID      string
}{
	{"米饭", "steam_rice"},
	{"白米饭", "steam_rice"},
	{"肥牛", "beef_sliced"},
	{"牛肉", "beef_sliced"},
	{"羊肉", "lamb_sliced"},
	{"猪肉", "pork_sliced"},
	{"鸡肉", "chicken_sliced"},
	{"豆皮", "bean_curd_wrapper"},
	{"宽粉", "mung_clear_sheets"},
}

type keywordEntry struct {
	keyword string
	id      string
}

// Parser 自由文本購物車增減解析器。
// 關鍵詞表構建一次：直接菜名 + 同義詞別名，按關鍵詞長度降序，
// 最長最具體者優先匹配，避免短別名遮蔽更長菜名。
type Parser struct {
	entries []keywordEntry
}

// NewParser 由菜單構建解析器關鍵詞表
func NewParser(catalog *menu.Catalog) *Parser {
	var entries []keywordEntry
	for _, s := range synonymAliases {
		entries = append(entries, keywordEntry{keyword: s.Keyword, id: s.ID})
	}
	for _, it := range catalog.Ingredients() {
		nameCN := strings.TrimSpace(it.NameCN)
		if nameCN != "" && it.ID != "" {
			entries = append(entries, keywordEntry{keyword: nameCN, id: it.ID})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return utf8.RuneCountInString(entries[i].keyword) > utf8.RuneCountInString(entries[j].keyword)
	})
	return &Parser{entries: entries}
}

// Parse 解析用戶消息中的增減意圖。
// 返回 (食材 id, 是否添加, 是否檢測到增減意圖)；
// 無意圖時 id 為空且 hasIntent 為 false；
// 有意圖但無法解析目標時 id 為空且 hasIntent 為 true，由調用方繼續後續路由。
func (p *Parser) Parse(msg string) (itemID string, isAdd bool, hasIntent bool) {
	t := strings.TrimSpace(msg)
	add := containsAny(t, addKeywords)
	remove := containsAny(t, removeKeywords)
	if !add && !remove {
		return "", true, false
	}
	for _, e := range p.entries {
		if strings.Contains(t, e.keyword) {
			return e.id, !remove, true
		}
	}
	return "", !remove, true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
