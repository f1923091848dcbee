package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockType tipo de movimiento de stock de tela.
type StockType string

const (
	StockTypeInward  StockType = "inward"  // entrada (recibido)
	StockTypeOutward StockType = "outward" // salida (despachado)
)

// Valid indica si el tipo es uno de los reconocidos.
func (t StockType) Valid() bool {
	return t == StockTypeInward || t == StockTypeOutward
}

// StockEntry representa un movimiento de stock (entrada o salida) de una categoría.
type StockEntry struct {
	ID         string
	Type       StockType
	Date       time.Time
	FabricType string          // ID de la categoría referenciada (no se valida a nivel de BD)
	Quantity   decimal.Decimal // siempre >= 0
	Remarks    string
	CreatedAt  time.Time

	// FabricTypeName se resuelve en lecturas; nil si la categoría ya no existe.
	FabricTypeName *string
}
