package repository

import (
	"context"

	"github.com/jhoicas/fabric-stock-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockEntryFilter filtros opcionales para listar movimientos. Campos vacíos no filtran.
type StockEntryFilter struct {
	Type       string
	FabricType string
}

// CategoryTotals totales agregados de movimientos para un fabric_type.
// CategoryName es nil cuando la categoría referenciada ya no existe (referencia huérfana).
type CategoryTotals struct {
	FabricType   string
	CategoryName *string
	TotalInward  decimal.Decimal
	TotalOutward decimal.Decimal
}

// StockEntryRepository define el puerto de persistencia para movimientos de stock (DIP).
type StockEntryRepository interface {
	Create(ctx context.Context, entry *entity.StockEntry) error
	// GetByID devuelve (nil, nil) si no existe. Resuelve FabricTypeName.
	GetByID(ctx context.Context, id string) (*entity.StockEntry, error)
	// Update reemplaza type/date/fabric_type/quantity/remarks; false si no existe.
	Update(ctx context.Context, entry *entity.StockEntry) (bool, error)
	// List devuelve los movimientos ordenados por date DESC con FabricTypeName resuelto.
	List(ctx context.Context, filter StockEntryFilter) ([]*entity.StockEntry, error)
	// Delete devuelve false si el movimiento no existía.
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteByFabricType elimina todos los movimientos de una categoría y devuelve cuántos borró.
	DeleteByFabricType(ctx context.Context, fabricType string) (int64, error)
	// TotalsByFabricType agrega entradas/salidas por fabric_type en una sola consulta.
	TotalsByFabricType(ctx context.Context) ([]CategoryTotals, error)
}
