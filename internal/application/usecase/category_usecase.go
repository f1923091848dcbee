package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fabric-stock-api/internal/application/dto"
	"github.com/jhoicas/fabric-stock-api/internal/application/ports"
	"github.com/jhoicas/fabric-stock-api/internal/domain"
	"github.com/jhoicas/fabric-stock-api/internal/domain/entity"
	"github.com/jhoicas/fabric-stock-api/internal/domain/repository"
)

var errCategoryNotFound = domain.NotFound("categoría no encontrada")

// CategoryUseCase casos de uso CRUD para categorías (tipos de tela).
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	txRunner TxRunner
	uploader ports.ImageUploader
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, txRunner TxRunner, uploader ports.ImageUploader) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, txRunner: txRunner, uploader: uploader}
}

// List devuelve todas las categorías, las más recientes primero.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar categorías: %w", err)
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return items, nil
}

// Create crea una categoría. Si viene imagen, se sube antes de persistir:
// un fallo en la subida no deja ninguna categoría creada.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest, image *ports.ImageFile) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name es requerido")
	}

	imageURL := ""
	if image != nil {
		url, err := uc.uploadImage(ctx, *image)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Image:       imageURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("crear categoría: %w", err)
	}
	return toCategoryResponse(category), nil
}

// Update actualiza solo los campos enviados. Sin imagen nueva, la imagen actual se conserva.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest, image *ports.ImageFile) (*dto.CategoryResponse, error) {
	if !isUUID(id) {
		return nil, errCategoryNotFound
	}
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener categoría: %w", err)
	}
	if category == nil {
		return nil, errCategoryNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name no puede estar vacío")
		}
		category.Name = name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if image != nil {
		url, err := uc.uploadImage(ctx, *image)
		if err != nil {
			return nil, err
		}
		category.Image = url
	}

	ok, err := uc.repo.Update(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("actualizar categoría: %w", err)
	}
	if !ok {
		return nil, errCategoryNotFound
	}
	return toCategoryResponse(category), nil
}

// Delete elimina la categoría y todos sus movimientos de stock en una sola transacción.
// Devuelve cuántos movimientos se eliminaron. Si la categoría no existe no se borra nada.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) (int64, error) {
	if !isUUID(id) {
		return 0, errCategoryNotFound
	}
	var removed int64
	err := uc.txRunner.Run(ctx, func(
		categoryRepo repository.CategoryRepository,
		stockRepo repository.StockEntryRepository,
	) error {
		deleted, err := categoryRepo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return errCategoryNotFound
		}
		n, err := stockRepo.DeleteByFabricType(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("eliminar categoría: %w", err)
	}
	return removed, nil
}

func (uc *CategoryUseCase) uploadImage(ctx context.Context, image ports.ImageFile) (string, error) {
	url, err := uc.uploader.Upload(ctx, image)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUpstream) {
			return "", err
		}
		return "", domain.Upstream("no se pudo subir la imagen", err)
	}
	return url, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		CreatedAt:   c.CreatedAt,
	}
}
