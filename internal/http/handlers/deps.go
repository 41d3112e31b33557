package handlers

import (
	"stocktrack/internal/config"
	"stocktrack/internal/repos"
	"stocktrack/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Inventory      *services.InventoryService
	ProductHandler *ProductHandler
	PageHandler    *PageHandler
}

// NewDeps wires the store, ledger and service around one shared handle.
func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	prodRepo := repos.NewProductRepo(db)
	histRepo := repos.NewHistoryRepo(db)
	invSvc := services.NewInventoryService(prodRepo, histRepo, repos.NewTxManager(db))

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 5
	}
	prodH := &ProductHandler{Inv: invSvc, PageSize: pageSize}
	return &Deps{
		Inventory:      invSvc,
		ProductHandler: prodH,
		PageHandler:    &PageHandler{Products: prodH, Inv: invSvc},
	}
}
