package sauce

import (
	"strings"

	"hotpot-concierge/internal/core/menu"
)

// Pairing 蘸料推薦結果，永遠成功：無規則命中時退回默認配方
type Pairing struct {
	SauceRecipe []string `json:"sauce_recipe"`
	ReasonCN    string   `json:"reason_cn"`
	ReasonEN    string   `json:"reason_en"`
}

// Engine 風味圖譜引擎
type Engine struct {
	table   *RuleTable
	catalog *menu.Catalog
}

// NewEngine 創建風味圖譜引擎
func NewEngine(table *RuleTable, catalog *menu.Catalog) *Engine {
	return &Engine{table: table, catalog: catalog}
}

// BrothTags 由鍋底屬性推導標籤：辣度 + 名稱/內容（川味、番茄、骨湯）
func (e *Engine) BrothTags(brothID string) []string {
	broth, found := e.catalog.BrothByID(brothID)

	var tags []string
	if found && (broth.Spicy == menu.SpicyFull || broth.Spicy == menu.SpicyHalf) {
		tags = append(tags, "spicy")
	}
	if found && (strings.Contains(strings.ToLower(broth.NameEN), "sichuan") || strings.Contains(broth.NameCN, "川")) {
		tags = append(tags, "sichuan")
	}
	if strings.Contains(brothID, "tomato") || (found && strings.Contains(broth.NameCN, "番茄")) {
		tags = append(tags, "tomato")
	}
	if found && broth.Spicy == menu.SpicyNone {
		tags = append(tags, "mild")
	}
	if strings.Contains(brothID, "bone") || (found && strings.Contains(broth.NameCN, "骨")) {
		tags = append(tags, "bone")
	}
	if found && broth.Spicy == menu.SpicyHalf {
		tags = append(tags, "half")
	}
	return tags
}

// IngredientTags 掃描購物車食材的品類與名稱推導標籤，去重後返回
func (e *Engine) IngredientTags(ingredientIDs []string) []string {
	seen := make(map[string]bool)
	var tags []string
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, iid := range ingredientIDs {
		it, ok := e.catalog.IngredientByID(iid)
		if !ok {
			continue
		}
		nameEN := strings.ToLower(it.NameEN)
		nameCN := it.NameCN
		if it.Category == menu.CategoryMeat {
			add("meat")
		}
		if strings.Contains(nameEN, "lamb") || strings.Contains(nameCN, "羊肉") {
			add("lamb")
		}
		if strings.Contains(nameEN, "beef") || strings.Contains(nameCN, "牛") {
			add("beef")
		}
		if it.Category == menu.CategorySeafood || strings.Contains(nameEN, "shrimp") || strings.Contains(nameCN, "虾") {
			add("seafood")
		}
		if strings.Contains(nameEN, "tripe") || strings.Contains(nameCN, "毛肚") || strings.Contains(nameCN, "黄喉") {
			add("tripe")
		}
		if strings.Contains(nameEN, "offal") || strings.Contains(nameCN, "内脏") {
			add("offal")
		}
		if it.Category == menu.CategoryVegetable {
			add("vegetable")
		}
	}
	return tags
}

// Pair 根據鍋底與已選食材推薦蘸料配方，按規則聲明順序先命中者勝
func (e *Engine) Pair(brothID string, ingredientIDs []string) Pairing {
	brothTags := e.BrothTags(brothID)
	ingredientTags := e.IngredientTags(ingredientIDs)

	for _, rule := range e.table.Rules {
		if len(rule.BrothTags) > 0 && !intersects(rule.BrothTags, brothTags) {
			continue
		}
		if len(rule.IngredientTags) > 0 && !intersects(rule.IngredientTags, ingredientTags) {
			continue
		}
		return Pairing{
			SauceRecipe: rule.SauceRecipe,
			ReasonCN:    rule.ReasonCN,
			ReasonEN:    rule.ReasonEN,
		}
	}

	return Pairing{
		SauceRecipe: e.table.DefaultSauce.SauceRecipe,
		ReasonCN:    e.table.DefaultSauce.ReasonCN,
		ReasonEN:    e.table.DefaultSauce.ReasonEN,
	}
}

func intersects(required, actual []string) bool {
	for _, r := range required {
		for _, a := range actual {
			if r == a {
				return true
			}
		}
	}
	return false
}
