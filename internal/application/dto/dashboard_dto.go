package dto

import "github.com/shopspring/decimal"

// DashboardStatsResponse respuesta de GET /api/stock/dashboard/stats.
// Available = TotalInward - TotalOutward (puede ser negativo).
type DashboardStatsResponse struct {
	TotalInward   decimal.Decimal   `json:"totalInward"`
	TotalOutward  decimal.Decimal   `json:"totalOutward"`
	Available     decimal.Decimal   `json:"available"`
	CategoryStats []CategoryStatDTO `json:"categoryStats"`
}

// CategoryStatDTO totales de una categoría con al menos un movimiento.
type CategoryStatDTO struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	TotalInward  decimal.Decimal `json:"totalInward"`
	TotalOutward decimal.Decimal `json:"totalOutward"`
	Available    decimal.Decimal `json:"available"`
}
