package repository

import (
	"context"

	"github.com/jhoicas/fabric-stock-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// Update devuelve false si la categoría no existe.
	Update(ctx context.Context, category *entity.Category) (bool, error)
	// List devuelve todas las categorías ordenadas por created_at DESC.
	List(ctx context.Context) ([]*entity.Category, error)
	// Delete devuelve false si la categoría no existía.
	Delete(ctx context.Context, id string) (bool, error)
}
