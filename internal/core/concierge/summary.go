package concierge

import (
	"fmt"
	"math"
	"strings"

	"hotpot-concierge/internal/core/menu"
	"hotpot-concierge/internal/core/session"
)

// buildPlanSummary 生成人類可讀的方案摘要：鍋底 + 食材份數 + 預估總價，
// 超出預算時附預算提醒；語言跟隨畫像
func buildPlanSummary(catalog *menu.Catalog, st *session.State) string {
	p := st.Profile
	numGuests := p.NumGuests
	if numGuests < 1 {
		numGuests = 1
	}
	en := p.Language == "en"

	var lines []string
	total := 0.0

	for _, c := range p.Broths {
		qty := c.Quantity
		if qty < 1 {
			qty = 1
		}
		price := 0.0
		nameCN, nameEN := c.NameCN, c.NameEN
		if b, ok := catalog.BrothByID(c.BrothID); ok {
			price = b.Price
			if nameCN == "" {
				nameCN = b.NameCN
			}
			if nameEN == "" {
				nameEN = b.NameEN
			}
		}
		total += price * float64(qty)
		if en {
			name := nameEN
			if name == "" {
				name = nameCN
			}
			lines = append(lines, fmt.Sprintf("Broth: %s × %d (¥%.0f)", name, qty, price))
		} else {
			name := nameCN
			if name == "" {
				name = nameEN
			}
			lines = append(lines, fmt.Sprintf("锅底：%s × %d（¥%.0f）", name, qty, price))
		}
	}

	for _, iid := range st.Cart {
		it, ok := catalog.IngredientByID(iid)
		if !ok {
			continue
		}
		qty := math.Max(0.5, math.Round(it.PortionPerPerson*float64(numGuests)*10)/10)
		sub := math.Round(it.PricePerPortion*qty*10) / 10
		total += sub
		if en {
			name := it.NameEN
			if name == "" {
				name = it.NameCN
			}
			lines = append(lines, fmt.Sprintf("  - %s × %.1f portions (¥%.1f)", name, qty, sub))
		} else {
			name := it.NameCN
			if name == "" {
				name = it.NameEN
			}
			lines = append(lines, fmt.Sprintf("  - %s × %.1f份（¥%.1f）", name, qty, sub))
		}
	}

	if en {
		lines = append(lines, fmt.Sprintf("\nEstimated total: ¥%.0f", math.Round(total)))
		if p.BudgetMax > 0 && total > p.BudgetMax {
			lines = append(lines, fmt.Sprintf("⚠ Over budget (¥%.0f). Tell me what to remove or reduce.", p.BudgetMax))
		}
		lines = append(lines, "Does this look good? Reply 'confirm' to place the order, or tell me what to change.")
	} else {
		lines = append(lines, fmt.Sprintf("\n预估总价：¥%.0f", math.Round(total)))
		if p.BudgetMax > 0 && total > p.BudgetMax {
			lines = append(lines, fmt.Sprintf("⚠ 超出预算（¥%.0f），可以告诉我去掉哪些或减少份数。", p.BudgetMax))
		}
		lines = append(lines, "满意的话回复「确认」生成订单，或告诉我要调整的地方。")
	}

	return strings.Join(lines, "\n")
}
