package concierge

import (
	"hotpot-concierge/internal/core/concierge"
	"hotpot-concierge/internal/core/menu"
)

// Handler 點餐對話處理程序
type Handler struct {
	router  *concierge.Router
	catalog *menu.Catalog
}

// NewHandler 創建新的點餐對話處理程序
func NewHandler(router *concierge.Router, catalog *menu.Catalog) *Handler {
	return &Handler{
		router:  router,
		catalog: catalog,
	}
}
