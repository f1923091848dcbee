package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fabric-stock-api/internal/domain"
	"github.com/jhoicas/fabric-stock-api/internal/domain/entity"
	"github.com/jhoicas/fabric-stock-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

const stockEntryColumns = `
	s.id, s.type, s.date, s.fabric_type, s.quantity, s.remarks, s.created_at, c.name`

const stockEntryFrom = `
	FROM stock_entries s
	LEFT JOIN categories c ON c.id = s.fabric_type`

// StockEntryRepo implementación de StockEntryRepository sobre PostgreSQL (usable con pool o tx).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Create persiste un nuevo movimiento.
func (r *StockEntryRepo) Create(ctx context.Context, entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (id, type, date, fabric_type, quantity, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		entry.ID, string(entry.Type), entry.Date, entry.FabricType, entry.Quantity, entry.Remarks, entry.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.Invalid("el movimiento no cumple las restricciones de tipo o cantidad")
		}
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento con el nombre de su categoría; (nil, nil) si no existe.
func (r *StockEntryRepo) GetByID(ctx context.Context, id string) (*entity.StockEntry, error) {
	query := `SELECT` + stockEntryColumns + stockEntryFrom + `
	WHERE s.id = $1`
	e, err := scanStockEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return e, nil
}

// Update reemplaza los campos editables del movimiento. created_at no se toca.
func (r *StockEntryRepo) Update(ctx context.Context, entry *entity.StockEntry) (bool, error) {
	query := `
		UPDATE stock_entries
		SET type = $2, date = $3, fabric_type = $4, quantity = $5, remarks = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		entry.ID, string(entry.Type), entry.Date, entry.FabricType, entry.Quantity, entry.Remarks,
	)
	if err != nil {
		if isCheckViolation(err) {
			return false, domain.Invalid("el movimiento no cumple las restricciones de tipo o cantidad")
		}
		return false, fmt.Errorf("update stock entry: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// List lista movimientos (opcionalmente filtrados) por fecha descendente.
func (r *StockEntryRepo) List(ctx context.Context, filter repository.StockEntryFilter) ([]*entity.StockEntry, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("s.type = $%d", len(args)))
	}
	if filter.FabricType != "" {
		args = append(args, filter.FabricType)
		conds = append(conds, fmt.Sprintf("s.fabric_type = $%d", len(args)))
	}

	query := `SELECT` + stockEntryColumns + stockEntryFrom
	if len(conds) > 0 {
		query += "\n\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\tORDER BY s.date DESC, s.created_at DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		e, err := scanStockEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Delete elimina un movimiento por ID; false si no existía.
func (r *StockEntryRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_entries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete stock entry: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// DeleteByFabricType elimina todos los movimientos de una categoría.
func (r *StockEntryRepo) DeleteByFabricType(ctx context.Context, fabricType string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_entries WHERE fabric_type = $1`, fabricType)
	if err != nil {
		return 0, fmt.Errorf("delete stock entries by fabric type: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// TotalsByFabricType agrupa entradas y salidas por fabric_type en una sola consulta.
// El LEFT JOIN conserva los grupos huérfanos (c.name NULL) para el total global.
func (r *StockEntryRepo) TotalsByFabricType(ctx context.Context) ([]repository.CategoryTotals, error) {
	const query = `
	SELECT
	    s.fabric_type,
	    c.name,
	    COALESCE(SUM(s.quantity) FILTER (WHERE s.type = 'inward'),  0) AS total_inward,
	    COALESCE(SUM(s.quantity) FILTER (WHERE s.type = 'outward'), 0) AS total_outward
	FROM stock_entries s
	LEFT JOIN categories c ON c.id = s.fabric_type
	GROUP BY s.fabric_type, c.name
	ORDER BY c.name NULLS LAST, s.fabric_type`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock.TotalsByFabricType: %w", err)
	}
	defer rows.Close()

	var results []repository.CategoryTotals
	for rows.Next() {
		var row repository.CategoryTotals
		if err := rows.Scan(&row.FabricType, &row.CategoryName, &row.TotalInward, &row.TotalOutward); err != nil {
			return nil, fmt.Errorf("stock.TotalsByFabricType scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func scanStockEntry(row pgx.Row) (*entity.StockEntry, error) {
	var (
		e        entity.StockEntry
		kind     string
		category *string
	)
	if err := row.Scan(&e.ID, &kind, &e.Date, &e.FabricType, &e.Quantity, &e.Remarks, &e.CreatedAt, &category); err != nil {
		return nil, err
	}
	e.Type = entity.StockType(kind)
	e.FabricTypeName = category
	return &e, nil
}
