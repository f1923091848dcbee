// Package testutil implementaciones en memoria de los puertos de persistencia y de imágenes
// para los tests de casos de uso y de la capa HTTP.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/fabric-stock-api/internal/application/ports"
	"github.com/jhoicas/fabric-stock-api/internal/domain/entity"
	"github.com/jhoicas/fabric-stock-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Store guarda categorías y movimientos en mapas. Es seguro para uso concurrente.
// Run copia el estado antes de ejecutar fn y lo restaura si fn falla, igual que un rollback.
type Store struct {
	mu         sync.Mutex
	categories map[string]entity.Category
	entries    map[string]entity.StockEntry

	// FailNextStockDelete hace fallar la siguiente llamada a DeleteByFabricType.
	FailNextStockDelete error
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		categories: map[string]entity.Category{},
		entries:    map[string]entity.StockEntry{},
	}
}

// Categories repositorio de categorías sobre el Store.
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }

// Stock repositorio de movimientos sobre el Store.
func (s *Store) Stock() repository.StockEntryRepository { return stockRepo{s} }

// Run implementa usecase.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(repository.CategoryRepository, repository.StockEntryRepository) error) error {
	s.mu.Lock()
	cats := make(map[string]entity.Category, len(s.categories))
	for k, v := range s.categories {
		cats[k] = v
	}
	entries := make(map[string]entity.StockEntry, len(s.entries))
	for k, v := range s.entries {
		entries[k] = v
	}
	s.mu.Unlock()

	if err := fn(s.Categories(), s.Stock()); err != nil {
		s.mu.Lock()
		s.categories, s.entries = cats, entries
		s.mu.Unlock()
		return err
	}
	return nil
}

// PutCategory inserta una categoría directamente (datos de prueba).
func (s *Store) PutCategory(c entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

// PutEntry inserta un movimiento directamente, sin comprobar la categoría (permite huérfanos).
func (s *Store) PutEntry(e entity.StockEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.FabricTypeName = nil
	s.entries[e.ID] = e
}

// EntryCount número de movimientos guardados.
func (s *Store) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// CategoryCount número de categorías guardadas.
func (s *Store) CategoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories)
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.PutCategory(*c)
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r categoryRepo) Update(_ context.Context, c *entity.Category) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.categories[c.ID]
	if !ok {
		return false, nil
	}
	cur.Name, cur.Description, cur.Image = c.Name, c.Description, c.Image
	r.s.categories[c.ID] = cur
	return true, nil
}

func (r categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r categoryRepo) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return false, nil
	}
	delete(r.s.categories, id)
	return true, nil
}

type stockRepo struct{ s *Store }

func (r stockRepo) Create(_ context.Context, e *entity.StockEntry) error {
	if !e.Type.Valid() || e.Quantity.IsNegative() {
		return errors.New("restricción de stock_entries violada")
	}
	r.s.PutEntry(*e)
	return nil
}

// resolve copia el movimiento y rellena FabricTypeName como lo haría el LEFT JOIN. Requiere mu.
func (r stockRepo) resolve(e entity.StockEntry) *entity.StockEntry {
	if c, ok := r.s.categories[e.FabricType]; ok {
		name := c.Name
		e.FabricTypeName = &name
	} else {
		e.FabricTypeName = nil
	}
	return &e
}

func (r stockRepo) GetByID(_ context.Context, id string) (*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok {
		return nil, nil
	}
	return r.resolve(e), nil
}

func (r stockRepo) Update(_ context.Context, e *entity.StockEntry) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.entries[e.ID]
	if !ok {
		return false, nil
	}
	cur.Type, cur.Date, cur.FabricType, cur.Quantity, cur.Remarks = e.Type, e.Date, e.FabricType, e.Quantity, e.Remarks
	r.s.entries[e.ID] = cur
	return true, nil
}

func (r stockRepo) List(_ context.Context, f repository.StockEntryFilter) ([]*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.StockEntry, 0, len(r.s.entries))
	for _, e := range r.s.entries {
		if f.Type != "" && string(e.Type) != f.Type {
			continue
		}
		if f.FabricType != "" && e.FabricType != f.FabricType {
			continue
		}
		out = append(out, r.resolve(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r stockRepo) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[id]; !ok {
		return false, nil
	}
	delete(r.s.entries, id)
	return true, nil
}

func (r stockRepo) DeleteByFabricType(_ context.Context, fabricType string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailNextStockDelete; err != nil {
		r.s.FailNextStockDelete = nil
		return 0, err
	}
	var n int64
	for id, e := range r.s.entries {
		if e.FabricType == fabricType {
			delete(r.s.entries, id)
			n++
		}
	}
	return n, nil
}

func (r stockRepo) TotalsByFabricType(_ context.Context) ([]repository.CategoryTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byType := map[string]*repository.CategoryTotals{}
	for _, e := range r.s.entries {
		t, ok := byType[e.FabricType]
		if !ok {
			t = &repository.CategoryTotals{FabricType: e.FabricType, TotalInward: decimal.Zero, TotalOutward: decimal.Zero}
			if c, found := r.s.categories[e.FabricType]; found {
				name := c.Name
				t.CategoryName = &name
			}
			byType[e.FabricType] = t
		}
		switch e.Type {
		case entity.StockTypeInward:
			t.TotalInward = t.TotalInward.Add(e.Quantity)
		case entity.StockTypeOutward:
			t.TotalOutward = t.TotalOutward.Add(e.Quantity)
		}
	}
	out := make([]repository.CategoryTotals, 0, len(byType))
	for _, t := range byType {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FabricType < out[j].FabricType })
	return out, nil
}

// Uploader ImageUploader falso: devuelve URL o Err y registra los archivos recibidos.
type Uploader struct {
	mu    sync.Mutex
	URL   string
	Err   error
	Files []ports.ImageFile
}

// Upload implementa ports.ImageUploader.
func (u *Uploader) Upload(_ context.Context, f ports.ImageFile) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Files = append(u.Files, f)
	if u.Err != nil {
		return "", u.Err
	}
	return u.URL, nil
}

// Calls número de subidas intentadas.
func (u *Uploader) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.Files)
}
