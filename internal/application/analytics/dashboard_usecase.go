// Package analytics contiene los casos de uso de estadísticas del Dashboard de stock.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/fabric-stock-api/internal/application/dto"
	"github.com/jhoicas/fabric-stock-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TotalsReader es la parte del repositorio de movimientos que necesita el dashboard.
type TotalsReader interface {
	TotalsByFabricType(ctx context.Context) ([]repository.CategoryTotals, error)
}

// DashboardUseCase calcula entradas, salidas y disponible, globales y por categoría.
//
// Fuente de datos: una única consulta agregada (una sola foto de los movimientos),
// de modo que los totales globales y los de cada categoría son coherentes entre sí.
type DashboardUseCase struct {
	repo TotalsReader
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo TotalsReader) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// GetStats construye el DashboardStatsResponse.
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	totals, err := uc.repo.TotalsByFabricType(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: totales por categoría: %w", err)
	}
	return buildStats(totals), nil
}

// buildStats suma todos los grupos en el total global. Los grupos cuya categoría
// ya no existe cuentan en el global pero no aparecen en CategoryStats.
func buildStats(totals []repository.CategoryTotals) *dto.DashboardStatsResponse {
	out := &dto.DashboardStatsResponse{
		TotalInward:   decimal.Zero,
		TotalOutward:  decimal.Zero,
		CategoryStats: make([]dto.CategoryStatDTO, 0, len(totals)),
	}
	for _, t := range totals {
		out.TotalInward = out.TotalInward.Add(t.TotalInward)
		out.TotalOutward = out.TotalOutward.Add(t.TotalOutward)
		if t.CategoryName == nil {
			continue
		}
		out.CategoryStats = append(out.CategoryStats, dto.CategoryStatDTO{
			CategoryID:   t.FabricType,
			CategoryName: *t.CategoryName,
			TotalInward:  t.TotalInward,
			TotalOutward: t.TotalOutward,
			Available:    t.TotalInward.Sub(t.TotalOutward),
		})
	}
	out.Available = out.TotalInward.Sub(out.TotalOutward)
	return out
}
