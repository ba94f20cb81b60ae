package recommend

import (
	"strings"

	"hotpot-concierge/internal/core/menu"
)

// 過敏類別（用戶以中文申報）
const (
	AllergyPeanut  = "花生"
	AllergySeafood = "海鲜"
	AllergyGluten  = "面筋"
)

// 人數 → 推薦總樣數規定：1人8樣、2人10樣、3人12樣、4人14樣、5人16樣、6人及以上17樣
var guestsToPortions = map[int]int{1: 8, 2: 10, 3: 12, 4: 14, 5: 16, 6: 17}

const maxPortions = 17

// 固定的人氣推薦順序
var defaultRecommendIDs = []string{
	"bean_sprouts",
	"potato_slices",
	"baby_bok_choy",
	"enoki_mushroom",
	"broccoli",
	"regular_tofu",
	"beef_sliced",
	"pork_sliced",
	"lamb_sliced",
	"beef_meat_ball",
	"shrimp_ball",
	"lobster_ball",
	"beef_tendon",
	"crab_sticks",
	"bean_vermicelli",
	"homemade_noodle",
	"udon_noodle",
}

// 過敏替換表：同類別的被替換 id 集合與等長替換序列，按位置依序頂替
var (
	seafoodIDs          = map[string]bool{"shrimp_ball": true, "lobster_ball": true, "crab_sticks": true}
	seafoodReplacements = []string{"chinese_cabbage", "frozen_tofu", "pork_meat_ball"}
	glutenIDs           = map[string]bool{"homemade_noodle": true, "udon_noodle": true}
	glutenReplacements  = []string{"konjac_noodles", "yam_noodle"}
)

var cnSeafoodKeywords = []string{"虾", "蟹", "鱼", "海鲜", "墨鱼", "鱿鱼", "青口", "蚬", "鲍鱼", "海参", "鱼丸", "虾丸", "蟹柳", "龙利鱼", "海带"}
var enSeafoodKeywords = []string{"shrimp", "crab", "fish", "seafood", "cuttlefish", "squid", "mussel", "clam", "abalone", "lobster", "basa"}

// TargetCount 按人數返回推薦樣數上限
func TargetCount(numGuests int) int {
	if n, ok := guestsToPortions[numGuests]; ok {
		return n
	}
	return maxPortions
}

// IngredientHasAllergen 判斷某食材是否含有指定過敏原（品類 + 名稱/備註關鍵詞啟發式）
func IngredientHasAllergen(it menu.Ingredient, allergen string) bool {
	nameCN := strings.TrimSpace(it.NameCN)
	nameEN := strings.ToLower(it.NameEN)
	notes := strings.ToLower(it.NotesEN)

	switch allergen {
	case AllergyPeanut:
		return strings.Contains(nameCN, "花生") || strings.Contains(nameEN, "peanut") || strings.Contains(notes, "peanut")
	case AllergySeafood:
		if it.Category == menu.CategorySeafood {
			return true
		}
		for _, kw := range cnSeafoodKeywords {
			if strings.Contains(nameCN, kw) {
				return true
			}
		}
		for _, kw := range enSeafoodKeywords {
			if strings.Contains(nameEN, kw) {
				return true
			}
		}
		return false
	case AllergyGluten:
		if strings.ToLower(it.ID) == "fried_round_gluten" {
			return true
		}
		return strings.Contains(nameCN, "面筋") || strings.Contains(nameEN, "gluten") || strings.Contains(notes, "gluten")
	}
	return false
}

// Engine 推薦引擎：對同一 (畫像, 菜單) 輸出確定
type Engine struct {
	catalog *menu.Catalog
}

// NewEngine 創建推薦引擎
func NewEngine(catalog *menu.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// OrderedIDs 應用過敏替換後的人氣順序 id 列表
func OrderedIDs(allergies []string) []string {
	hasSeafood := hasAllergy(allergies, AllergySeafood)
	hasGluten := hasAllergy(allergies, AllergyGluten)

	ids := make([]string, len(defaultRecommendIDs))
	copy(ids, defaultRecommendIDs)

	if hasSeafood {
		next := 0
		for i, id := range ids {
			if seafoodIDs[id] && next < len(seafoodReplacements) {
				ids[i] = seafoodReplacements[next]
				next++
			}
		}
	}
	if hasGluten {
		next := 0
		for i, id := range ids {
			if glutenIDs[id] && next < len(glutenReplacements) {
				ids[i] = glutenReplacements[next]
				next++
			}
		}
	}
	return ids
}

// CuratedItems 應用過敏替換與過濾後的完整人氣清單，不按人數截取；
// 完整可選列表按它排展示順序
func (e *Engine) CuratedItems(allergies []string) []menu.Ingredient {
	ids := OrderedIDs(allergies)

	seen := make(map[string]bool)
	var result []menu.Ingredient
	for _, id := range ids {
		if seen[id] {
			continue
		}
		it, ok := e.catalog.IngredientByID(id)
		if !ok {
			continue
		}
		if matchesAnyAllergen(it, allergies) {
			continue
		}
		seen[id] = true
		result = append(result, it)
	}
	return result
}

// RecommendItems 根據人數與過敏列表，按固定人氣順序返回推薦食材並按人數截取。
// 保證：輸出不含任何申報過敏原對應的食材；合格食材足夠時長度恰為規定樣數。
func (e *Engine) RecommendItems(numGuests int, allergies []string) []menu.Ingredient {
	result := e.CuratedItems(allergies)

	target := TargetCount(numGuests)
	if len(result) > target {
		result = result[:target]
	}
	return result
}

// EligibleIngredients 返回排除過敏原後的全部食材（供完整可選列表展示）
func (e *Engine) EligibleIngredients(allergies []string) []menu.Ingredient {
	var result []menu.Ingredient
	for _, it := range e.catalog.Ingredients() {
		if matchesAnyAllergen(it, allergies) {
			continue
		}
		result = append(result, it)
	}
	return result
}

// DefaultBrothID 在畫像未指定鍋底時按辣度選默認鍋底：
// 不辣/微辣 → 番茄鍋；重辣 → 川味辣鍋；其餘 → 鴛鴦鍋
func DefaultBrothID(spiceTolerance string) string {
	switch spiceTolerance {
	case "none", "mild":
		return "tomato_herbs"
	case "high":
		return "szechwan_spicy"
	default:
		return "yinyang"
	}
}

func matchesAnyAllergen(it menu.Ingredient, allergies []string) bool {
	for _, a := range allergies {
		a = strings.TrimSpace(a)
		if a != "" && IngredientHasAllergen(it, a) {
			return true
		}
	}
	return false
}

func hasAllergy(allergies []string, allergen string) bool {
	for _, a := range allergies {
		if strings.TrimSpace(a) == allergen {
			return true
		}
	}
	return false
}
