package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fabric-stock-api/internal/domain"
	"github.com/jhoicas/fabric-stock-api/internal/domain/entity"
	"github.com/jhoicas/fabric-stock-api/internal/domain/repository"
	"github.com/jhoicas/fabric-stock-api/pkg/config"
)

func TestPgErrorCodes(t *testing.T) {
	assert.True(t, isCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isCheckViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isInvalidText(&pgconn.PgError{Code: "22P02"}))
	assert.False(t, isInvalidText(errors.New("otro")))
}

// testPool abre una base real si TEST_DATABASE_URL está definida; si no, el test se omite.
// Cada test trabaja en un esquema temporal propio.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definida")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS stock_entries, categories`)
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(ctx, pool))
	require.NoError(t, EnsureSchema(ctx, pool), "el esquema debe ser idempotente")
	return pool
}

func TestRepositorios_Integracion(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	categories := NewCategoryRepository(pool)
	stock := NewStockEntryRepository(pool)

	cat := &entity.Category{ID: uuid.NewString(), Name: "Algodón", CreatedAt: time.Now().UTC()}
	require.NoError(t, categories.Create(ctx, cat))

	got, err := categories.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Algodón", got.Name)

	missing, err := categories.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	for i, e := range []entity.StockEntry{
		{Type: entity.StockTypeInward, Date: day(1), Quantity: decimal.NewFromInt(100)},
		{Type: entity.StockTypeOutward, Date: day(2), Quantity: decimal.RequireFromString("30.25")},
	} {
		e.ID, e.FabricType, e.CreatedAt = uuid.NewString(), cat.ID, day(i+1)
		require.NoError(t, stock.Create(ctx, &e))
	}
	orphan := &entity.StockEntry{ID: uuid.NewString(), Type: entity.StockTypeInward, Date: day(3), FabricType: uuid.NewString(), Quantity: decimal.NewFromInt(5), CreatedAt: day(3)}
	require.NoError(t, stock.Create(ctx, orphan))

	negative := &entity.StockEntry{ID: uuid.NewString(), Type: entity.StockTypeInward, Date: day(1), FabricType: cat.ID, Quantity: decimal.NewFromInt(-1), CreatedAt: day(1)}
	assert.True(t, errors.Is(stock.Create(ctx, negative), domain.ErrInvalidInput), "CHECK quantity >= 0")

	all, err := stock.List(ctx, repository.StockEntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, orphan.ID, all[0].ID, "orden por fecha descendente")
	assert.Nil(t, all[0].FabricTypeName)
	require.NotNil(t, all[1].FabricTypeName)
	assert.Equal(t, "Algodón", *all[1].FabricTypeName)

	outward, err := stock.List(ctx, repository.StockEntryFilter{Type: "outward", FabricType: cat.ID})
	require.NoError(t, err)
	require.Len(t, outward, 1)
	assert.True(t, outward[0].Quantity.Equal(decimal.RequireFromString("30.25")))

	totals, err := stock.TotalsByFabricType(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, cat.ID, totals[0].FabricType, "las categorías existentes van antes que los huérfanos")
	assert.True(t, totals[0].TotalInward.Equal(decimal.NewFromInt(100)))
	assert.True(t, totals[0].TotalOutward.Equal(decimal.RequireFromString("30.25")))
	assert.Nil(t, totals[1].CategoryName)
	assert.True(t, totals[1].TotalOutward.IsZero())

	// Cascada transaccional
	runner := NewTxRunner(pool)
	var removed int64
	err = runner.Run(ctx, func(c repository.CategoryRepository, s repository.StockEntryRepository) error {
		ok, err := c.Delete(ctx, cat.ID)
		if err != nil {
			return err
		}
		assert.True(t, ok)
		removed, err = s.DeleteByFabricType(ctx, cat.ID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	left, err := stock.List(ctx, repository.StockEntryFilter{})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestTxRunner_Rollback(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	categories := NewCategoryRepository(pool)
	cat := &entity.Category{ID: uuid.NewString(), Name: "Seda", CreatedAt: time.Now().UTC()}
	require.NoError(t, categories.Create(ctx, cat))

	boom := errors.New("fallo a mitad")
	err := NewTxRunner(pool).Run(ctx, func(c repository.CategoryRepository, _ repository.StockEntryRepository) error {
		if _, err := c.Delete(ctx, cat.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	still, err := categories.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.NotNil(t, still, "el rollback conserva la categoría")
}
