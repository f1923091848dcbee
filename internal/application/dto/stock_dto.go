package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntryRequest body para POST /api/stock y PUT /api/stock/:id.
// Quantity acepta número o cadena numérica; Date acepta RFC3339 o YYYY-MM-DD (vacío = ahora).
type StockEntryRequest struct {
	Type       string           `json:"type" validate:"required,oneof=inward outward"`
	Date       string           `json:"date"`
	FabricType string           `json:"fabricType" validate:"required,uuid"`
	Quantity   *decimal.Decimal `json:"quantity" validate:"required"`
	Remarks    string           `json:"remarks"`
}

// FabricTypeRef referencia resuelta a la categoría de un movimiento.
type FabricTypeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StockEntryResponse representación JSON de un movimiento de stock.
// FabricType es null si la categoría referenciada ya no existe.
type StockEntryResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Date       time.Time       `json:"date"`
	FabricType *FabricTypeRef  `json:"fabricType"`
	Quantity   decimal.Decimal `json:"quantity"`
	Remarks    string          `json:"remarks"`
	CreatedAt  time.Time       `json:"createdAt"`
}
