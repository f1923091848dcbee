package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fabric-stock-api/internal/application/dto"
	"github.com/jhoicas/fabric-stock-api/internal/domain"
	"github.com/jhoicas/fabric-stock-api/internal/domain/entity"
	"github.com/jhoicas/fabric-stock-api/internal/domain/repository"
)

var errStockEntryNotFound = domain.NotFound("movimiento de stock no encontrado")

// Formatos aceptados para la fecha del movimiento (el frontend envía YYYY-MM-DD).
var stockDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// StockUseCase casos de uso para movimientos de stock (entradas y salidas).
type StockUseCase struct {
	repo         repository.StockEntryRepository
	categoryRepo repository.CategoryRepository
	now          func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repo repository.StockEntryRepository, categoryRepo repository.CategoryRepository) *StockUseCase {
	return &StockUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// List devuelve todos los movimientos ordenados por fecha descendente.
func (uc *StockUseCase) List(ctx context.Context) ([]dto.StockEntryResponse, error) {
	return uc.list(ctx, repository.StockEntryFilter{})
}

// ListByType filtra por tipo. Un tipo no reconocido simplemente no coincide con nada.
func (uc *StockUseCase) ListByType(ctx context.Context, stockType string) ([]dto.StockEntryResponse, error) {
	return uc.list(ctx, repository.StockEntryFilter{Type: stockType})
}

// ListByCategory filtra por categoría (fabricType).
func (uc *StockUseCase) ListByCategory(ctx context.Context, categoryID string) ([]dto.StockEntryResponse, error) {
	if !isUUID(categoryID) {
		return []dto.StockEntryResponse{}, nil
	}
	return uc.list(ctx, repository.StockEntryFilter{FabricType: categoryID})
}

func (uc *StockUseCase) list(ctx context.Context, filter repository.StockEntryFilter) ([]dto.StockEntryResponse, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	items := make([]dto.StockEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toStockEntryResponse(e))
	}
	return items, nil
}

// Create registra un movimiento y lo devuelve con el nombre de la categoría resuelto.
func (uc *StockUseCase) Create(ctx context.Context, in dto.StockEntryRequest) (*dto.StockEntryResponse, error) {
	entry, err := uc.buildEntry(ctx, in)
	if err != nil {
		return nil, err
	}
	entry.ID = uuid.New().String()
	entry.CreatedAt = uc.now()
	if err := uc.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("crear movimiento: %w", err)
	}
	return uc.reload(ctx, entry.ID)
}

// Update reemplaza type, date, fabricType, quantity y remarks de un movimiento existente.
func (uc *StockUseCase) Update(ctx context.Context, id string, in dto.StockEntryRequest) (*dto.StockEntryResponse, error) {
	if !isUUID(id) {
		return nil, errStockEntryNotFound
	}
	entry, err := uc.buildEntry(ctx, in)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	ok, err := uc.repo.Update(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("actualizar movimiento: %w", err)
	}
	if !ok {
		return nil, errStockEntryNotFound
	}
	return uc.reload(ctx, id)
}

// Delete elimina un movimiento por ID.
func (uc *StockUseCase) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return errStockEntryNotFound
	}
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("eliminar movimiento: %w", err)
	}
	if !ok {
		return errStockEntryNotFound
	}
	return nil
}

// buildEntry valida la entrada y construye la entidad (sin ID ni CreatedAt).
func (uc *StockUseCase) buildEntry(ctx context.Context, in dto.StockEntryRequest) (*entity.StockEntry, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Quantity.IsNegative() {
		return nil, domain.Invalid("quantity debe ser mayor o igual a 0")
	}
	date, err := uc.parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.GetByID(ctx, in.FabricType)
	if err != nil {
		return nil, fmt.Errorf("obtener categoría: %w", err)
	}
	if category == nil {
		return nil, domain.Invalid("fabricType no corresponde a una categoría existente")
	}

	return &entity.StockEntry{
		Type:       entity.StockType(in.Type),
		Date:       date,
		FabricType: category.ID,
		Quantity:   *in.Quantity,
		Remarks:    strings.TrimSpace(in.Remarks),
	}, nil
}

func (uc *StockUseCase) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uc.now(), nil
	}
	for _, layout := range stockDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Invalid("date tiene un formato inválido")
}

func (uc *StockUseCase) reload(ctx context.Context, id string) (*dto.StockEntryResponse, error) {
	entry, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener movimiento: %w", err)
	}
	if entry == nil {
		return nil, errStockEntryNotFound
	}
	return toStockEntryResponse(entry), nil
}

func toStockEntryResponse(e *entity.StockEntry) *dto.StockEntryResponse {
	if e == nil {
		return nil
	}
	out := &dto.StockEntryResponse{
		ID:        e.ID,
		Type:      string(e.Type),
		Date:      e.Date,
		Quantity:  e.Quantity,
		Remarks:   e.Remarks,
		CreatedAt: e.CreatedAt,
	}
	if e.FabricTypeName != nil {
		out.FabricType = &dto.FabricTypeRef{ID: e.FabricType, Name: *e.FabricTypeName}
	}
	return out
}
