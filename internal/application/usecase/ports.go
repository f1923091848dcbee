package usecase

import (
	"context"

	"github.com/jhoicas/fabric-stock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Lo usa la eliminación en cascada de categorías para no dejar estados intermedios.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		categoryRepo repository.CategoryRepository,
		stockRepo repository.StockEntryRepository,
	) error) error
}
