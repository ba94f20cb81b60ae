package sauce

import (
	"fmt"
	"os"

	"hotpot-concierge/internal/pkg/common"

	"go.uber.org/zap"
)

// Rule 風味圖譜規則：鍋底標籤 + 食材標籤 → 蘸料配方。
// 標籤要求為空視為該側永遠滿足。
type Rule struct {
	BrothTags      []string `json:"broth_tags"`
	IngredientTags []string `json:"ingredient_tags"`
	SauceRecipe    []string `json:"sauce_recipe"`
	ReasonCN       string   `json:"reason_cn"`
	ReasonEN       string   `json:"reason_en"`
}

// DefaultSauce 無規則命中時的兜底蘸料
type DefaultSauce struct {
	SauceRecipe []string `json:"sauce_recipe"`
	ReasonCN    string   `json:"reason_cn"`
	ReasonEN    string   `json:"reason_en"`
}

// RuleTable 規則表，按聲明順序匹配，先命中者勝
type RuleTable struct {
	Rules        []Rule       `json:"rules"`
	DefaultSauce DefaultSauce `json:"default_sauce"`
}

// LoadRules 載入蘸料規則文件；文件不存在時返回 RULES_NOT_FOUND
func LoadRules(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NewError("RULES_NOT_FOUND", fmt.Sprintf("蘸料規則文件不存在: %s", path), 500, err)
		}
		return nil, fmt.Errorf("failed to read sauce rules: %w", err)
	}

	var table RuleTable
	if err := common.ParseJSONBytes(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse sauce rules: %w", err)
	}

	if len(table.DefaultSauce.SauceRecipe) == 0 {
		table.DefaultSauce = DefaultSauce{
			SauceRecipe: []string{"蒜泥+香油+蚝油+香菜"},
			ReasonCN:    "万能蘸料",
			ReasonEN:    "All-purpose",
		}
	}

	// 兩側標籤均為空的規則會攔截其後所有規則，極可能是作者筆誤
	for i, r := range table.Rules {
		if len(r.BrothTags) == 0 && len(r.IngredientTags) == 0 {
			common.LogWarn("蘸料規則兩側標籤均為空，將匹配所有請求",
				zap.Int("rule_index", i),
				zap.String("reason_cn", r.ReasonCN),
			)
		}
	}

	common.LogInfo("蘸料規則載入完成",
		zap.String("path", path),
		zap.Int("規則數", len(table.Rules)),
	)

	return &table, nil
}
