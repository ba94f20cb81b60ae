package order

import (
	"reflect"
	"testing"

	"hotpot-concierge/internal/core/menu"
	"hotpot-concierge/internal/core/profile"
	"hotpot-concierge/internal/core/sauce"
)

const (
	repoMenuPath  = "../../../data/hotpot_menu.json"
	repoRulesPath = "../../../data/sauce_pairing_rules.json"
)

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	catalog, err := menu.Load(repoMenuPath)
	if err != nil {
		t.Fatalf("load menu: %v", err)
	}
	table, err := sauce.LoadRules(repoRulesPath)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	return NewAssembler(catalog, sauce.NewEngine(table, catalog))
}

func TestAssembleQuantitiesAndTotal(t *testing.T) {
	a := newTestAssembler(t)

	p := profile.CustomerProfile{
		NumGuests: 1,
		Broths: []profile.BrothChoice{
			{BrothID: "szechwan_spicy", Quantity: 1},
		},
	}
	ord := a.Assemble(p, []string{"beef_tripe", "bean_sprouts"})

	if ord.NumGuests != 1 {
		t.Errorf("num_guests = %d, want 1", ord.NumGuests)
	}
	if len(ord.Broths) != 1 || ord.Broths[0].BrothID != "szechwan_spicy" {
		t.Fatalf("broths = %+v", ord.Broths)
	}
	if ord.Broths[0].Price != 32 {
		t.Errorf("broth price = %v, want 32", ord.Broths[0].Price)
	}
	if len(ord.Items) != 2 {
		t.Fatalf("items = %+v", ord.Items)
	}
	// 毛肚每人 0.5 份，1 人不低於最小 0.5 份
	if ord.Items[0].MenuItemID != "beef_tripe" || ord.Items[0].Quantity != 0.5 {
		t.Errorf("tripe line = %+v, want quantity 0.5", ord.Items[0])
	}
	if ord.Items[1].MenuItemID != "bean_sprouts" || ord.Items[1].Quantity != 1.0 {
		t.Errorf("sprouts line = %+v, want quantity 1.0", ord.Items[1])
	}

	// 32 + 36×0.5 + 8×1 = 58
	if ord.TotalEstimate != 58.0 {
		t.Errorf("total = %v, want 58.0", ord.TotalEstimate)
	}

	// 麻辣鍋 + 毛肚命中川味規則
	want := []string{"蒜泥", "香油", "香菜"}
	if !reflect.DeepEqual(ord.DippingSauceRecipe, want) {
		t.Errorf("sauce = %v, want %v", ord.DippingSauceRecipe, want)
	}
}

func TestAssembleDedupAndUnknownIDs(t *testing.T) {
	a := newTestAssembler(t)

	p := profile.CustomerProfile{NumGuests: 3}
	ord := a.Assemble(p, []string{"bean_sprouts", "bean_sprouts", "ghost_item", "enoki_mushroom"})

	if len(ord.Items) != 2 {
		t.Fatalf("got %d items, want 2 (dedup + unknown dropped): %+v", len(ord.Items), ord.Items)
	}
	if ord.Items[0].MenuItemID != "bean_sprouts" || ord.Items[1].MenuItemID != "enoki_mushroom" {
		t.Errorf("item order = %s, %s", ord.Items[0].MenuItemID, ord.Items[1].MenuItemID)
	}
	if ord.Items[0].Quantity != 3.0 {
		t.Errorf("quantity = %v, want 3.0 for 3 guests", ord.Items[0].Quantity)
	}
}

func TestAssembleDefaultBroth(t *testing.T) {
	a := newTestAssembler(t)

	tests := []struct {
		spice string
		want  string
	}{
		{"none", "tomato_herbs"},
		{"high", "szechwan_spicy"},
		{"medium", "yinyang"},
	}
	for _, tt := range tests {
		t.Run(tt.spice, func(t *testing.T) {
			ord := a.Assemble(profile.CustomerProfile{NumGuests: 2, SpiceTolerance: tt.spice}, nil)
			if len(ord.Broths) != 1 || ord.Broths[0].BrothID != tt.want {
				t.Errorf("broths = %+v, want single %s", ord.Broths, tt.want)
			}
			if ord.Broths[0].Quantity != 1 {
				t.Errorf("default broth quantity = %d, want 1", ord.Broths[0].Quantity)
			}
		})
	}
}

func TestAssembleGuestsFloor(t *testing.T) {
	a := newTestAssembler(t)

	ord := a.Assemble(profile.CustomerProfile{NumGuests: 0}, []string{"bean_sprouts"})
	if ord.NumGuests != 1 {
		t.Errorf("num_guests = %d, want floor 1", ord.NumGuests)
	}
}

func TestAssembleBrothQuantityFloor(t *testing.T) {
	a := newTestAssembler(t)

	p := profile.CustomerProfile{
		NumGuests: 2,
		Broths:    []profile.BrothChoice{{BrothID: "yinyang", Quantity: 0}},
	}
	ord := a.Assemble(p, nil)
	if ord.Broths[0].Quantity != 1 {
		t.Errorf("broth quantity = %d, want floor 1", ord.Broths[0].Quantity)
	}
	if ord.Broths[0].NameCN != "鸳鸯锅" {
		t.Errorf("broth name backfill failed: %+v", ord.Broths[0])
	}
}

func TestAssembleDeterministic(t *testing.T) {
	a := newTestAssembler(t)

	p := profile.CustomerProfile{NumGuests: 4, SpiceTolerance: "high"}
	cart := []string{"beef_sliced", "beef_tripe", "bean_sprouts", "udon_noodle"}
	first := a.Assemble(p, cart)
	for i := 0; i < 10; i++ {
		if got := a.Assemble(p, cart); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged", i)
		}
	}
	// 32 + 38×6 + 36×2 + 8×4 + 9×4 = 400
	if first.TotalEstimate != 400.0 {
		t.Errorf("total = %v, want 400.0", first.TotalEstimate)
	}
}
