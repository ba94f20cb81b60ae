package order

import (
	"math"

	"hotpot-concierge/internal/core/menu"
	"hotpot-concierge/internal/core/profile"
	"hotpot-concierge/internal/core/recommend"
	"hotpot-concierge/internal/core/sauce"
)

const minQuantity = 0.5

// Assembler 訂單組裝器：畫像 + 購物車 → 結構化訂單。
// 對同一 (畫像, 購物車, 菜單, 規則表) 輸出逐字節一致。
type Assembler struct {
	catalog *menu.Catalog
	sauce   *sauce.Engine
}

// NewAssembler 創建訂單組裝器
func NewAssembler(catalog *menu.Catalog, sauceEngine *sauce.Engine) *Assembler {
	return &Assembler{catalog: catalog, sauce: sauceEngine}
}

// Assemble 組裝最終訂單。
// 不變式：num_guests ≥ 1；每項份數 ≥ 0.5；鍋底列表非空（畫像未定時用默認鍋底）；
// 不在菜單中的購物車 id 靜默丟棄，不報錯。
func (a *Assembler) Assemble(p profile.CustomerProfile, cart []string) Order {
	numGuests := p.NumGuests
	if numGuests < 1 {
		numGuests = 1
	}

	broths := a.resolveBroths(p)

	seen := make(map[string]bool)
	items := make([]ItemLine, 0, len(cart))
	for _, iid := range cart {
		if seen[iid] {
			continue
		}
		seen[iid] = true
		it, ok := a.catalog.IngredientByID(iid)
		if !ok {
			continue
		}
		qty := math.Max(minQuantity, round1(it.PortionPerPerson*float64(numGuests)))
		items = append(items, ItemLine{
			MenuItemID: iid,
			NameCN:     it.NameCN,
			NameEN:     it.NameEN,
			Category:   it.Category,
			Quantity:   qty,
			Unit:       it.UnitEN,
			Price:      it.PricePerPortion,
		})
	}

	// 蘸料按第一個（主）鍋底與完整購物車計算
	pairing := a.sauce.Pair(broths[0].BrothID, cart)

	total := 0.0
	for _, b := range broths {
		total += b.Price * float64(b.Quantity)
	}
	for _, it := range items {
		total += it.Price * it.Quantity
	}

	return Order{
		Broths:             broths,
		Items:              items,
		NumGuests:          numGuests,
		DippingSauceRecipe: pairing.SauceRecipe,
		TotalEstimate:      round1(total),
	}
}

// resolveBroths 把畫像中的鍋底選擇解析為非空訂單鍋底列表
func (a *Assembler) resolveBroths(p profile.CustomerProfile) []BrothLine {
	if len(p.Broths) > 0 {
		lines := make([]BrothLine, 0, len(p.Broths))
		for _, c := range p.Broths {
			qty := c.Quantity
			if qty < 1 {
				qty = 1
			}
			line := BrothLine{
				BrothID:  c.BrothID,
				NameCN:   c.NameCN,
				NameEN:   c.NameEN,
				Quantity: qty,
			}
			if b, ok := a.catalog.BrothByID(c.BrothID); ok {
				if line.NameCN == "" {
					line.NameCN = b.NameCN
				}
				if line.NameEN == "" {
					line.NameEN = b.NameEN
				}
				line.Price = b.Price
			}
			lines = append(lines, line)
		}
		return lines
	}

	// 畫像未解析出鍋底時按辣度退回默認鍋底
	id := recommend.DefaultBrothID(p.SpiceTolerance)
	b, ok := a.catalog.BrothByID(id)
	if !ok {
		all := a.catalog.Broths()
		if len(all) > 0 {
			b = all[0]
		} else {
			b = menu.Broth{ID: id}
		}
	}
	return []BrothLine{{
		BrothID:  b.ID,
		NameCN:   b.NameCN,
		NameEN:   b.NameEN,
		Quantity: 1,
		Price:    b.Price,
	}}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
