package order

import "hotpot-concierge/internal/core/menu"

// BrothLine 訂單中的一項鍋底
type BrothLine struct {
	BrothID  string  `json:"broth_id"`
	NameCN   string  `json:"name_cn"`
	NameEN   string  `json:"name_en"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ItemLine 訂單中的一項食材，份數在組裝時按人數推導
type ItemLine struct {
	MenuItemID string        `json:"menu_item_id"`
	NameCN     string        `json:"name_cn"`
	NameEN     string        `json:"name_en"`
	Category   menu.Category `json:"category"`
	Quantity   float64       `json:"quantity"`
	Unit       string        `json:"unit"`
	Price      float64       `json:"price"`
}

// Order 結構化訂單，可直接交廚房執行
type Order struct {
	Broths             []BrothLine `json:"broths"`
	Items              []ItemLine  `json:"items"`
	NumGuests          int         `json:"num_guests"`
	DippingSauceRecipe []string    `json:"dipping_sauce_recipe"`
	TotalEstimate      float64     `json:"total_estimate"`
}
