package concierge

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MenuResponse 菜單全量響應
type MenuResponse struct {
	ShopName    string      `json:"shop_name"`
	Broths      []BrothView `json:"broths"`
	Ingredients []ItemView  `json:"ingredients"`
}

// BrothView 鍋底視圖
type BrothView struct {
	ID     string  `json:"id"`
	NameCN string  `json:"name_cn"`
	NameEN string  `json:"name_en"`
	Price  float64 `json:"price"`
	Spicy  string  `json:"spicy"`
}

// ItemView 食材視圖
type ItemView struct {
	ID       string  `json:"id"`
	NameCN   string  `json:"name_cn"`
	NameEN   string  `json:"name_en"`
	Category string  `json:"category"`
	Portion  float64 `json:"portion_per_person"`
	Price    float64 `json:"price_per_portion"`
}

// HandleMenu 返回完整菜單（鍋底 + 食材）
func (h *Handler) HandleMenu(c *gin.Context) {
	resp := MenuResponse{ShopName: h.catalog.ShopName()}

	for _, b := range h.catalog.Broths() {
		resp.Broths = append(resp.Broths, BrothView{
			ID:     b.ID,
			NameCN: b.NameCN,
			NameEN: b.NameEN,
			Price:  b.Price,
			Spicy:  string(b.Spicy),
		})
	}
	for _, it := range h.catalog.Ingredients() {
		resp.Ingredients = append(resp.Ingredients, ItemView{
			ID:       it.ID,
			NameCN:   it.NameCN,
			NameEN:   it.NameEN,
			Category: string(it.Category),
			Portion:  it.PortionPerPerson,
			Price:    it.PricePerPortion,
		})
	}

	c.JSON(http.StatusOK, resp)
}
