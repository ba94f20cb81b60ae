package recommend

import (
	"testing"

	"hotpot-concierge/internal/core/menu"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	catalog, err := menu.Load(repoMenuPath)
	if err != nil {
		t.Fatalf("load menu: %v", err)
	}
	return NewParser(catalog)
}

func TestParse(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name      string
		msg       string
		wantID    string
		wantAdd   bool
		wantFound bool
	}{
		{"add by menu name", "再加一份虾丸", "shrimp_ball", true, true},
		{"add by alias", "加点牛肉", "beef_sliced", true, true},
		{"add rice alias", "来一份米饭", "steam_rice", true, true},
		{"add wide noodle alias", "加上宽粉", "mung_clear_sheets", true, true},
		{"remove by menu name", "去掉土豆片", "potato_slices", false, true},
		// 「不要」同時包含添加詞「要」，移除優先
		{"remove wins over embedded add keyword", "不要虾丸", "shrimp_ball", false, true},
		{"remove by alias", "取消羊肉", "lamb_sliced", false, true},
		{"intent without target", "再来一份", "", true, true},
		{"remove intent without target", "不要了", "", false, true},
		{"no intent", "你们有什么锅底", "", true, false},
		{"bare item name without intent", "米饭", "", true, false},
		{"empty message", "", "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, isAdd, hasIntent := p.Parse(tt.msg)
			if id != tt.wantID || isAdd != tt.wantAdd || hasIntent != tt.wantFound {
				t.Errorf("Parse(%q) = (%q, %v, %v), want (%q, %v, %v)",
					tt.msg, id, isAdd, hasIntent, tt.wantID, tt.wantAdd, tt.wantFound)
			}
		})
	}
}

// 長關鍵詞優先：消息同時包含「肥牛卷」與別名「肥牛」時按完整菜名解析
func TestParseLongestKeywordFirst(t *testing.T) {
	p := newTestParser(t)

	id, isAdd, hasIntent := p.Parse("加一份肥牛卷")
	if id != "beef_sliced" || !isAdd || !hasIntent {
		t.Errorf("Parse = (%q, %v, %v), want (beef_sliced, true, true)", id, isAdd, hasIntent)
	}
}

// 關鍵詞表構建結果確定：多次構建的解析行為一致
func TestParserDeterministic(t *testing.T) {
	catalog, err := menu.Load(repoMenuPath)
	if err != nil {
		t.Fatalf("load menu: %v", err)
	}
	msgs := []string{"加点牛肉", "不要虾丸", "去掉宽粉", "再来一份豆皮"}
	p1 := NewParser(catalog)
	for i := 0; i < 5; i++ {
		p2 := NewParser(catalog)
		for _, msg := range msgs {
			id1, add1, ok1 := p1.Parse(msg)
			id2, add2, ok2 := p2.Parse(msg)
			if id1 != id2 || add1 != add2 || ok1 != ok2 {
				t.Fatalf("parser %d diverged on %q: (%s,%v,%v) vs (%s,%v,%v)",
					i, msg, id1, add1, ok1, id2, add2, ok2)
			}
		}
	}
}
