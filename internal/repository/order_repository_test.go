package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"medifinder/internal/entity"
	"medifinder/migrations"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.AutoMigrate("sqlite", 1, db))
	return db
}

func TestCreateOrderWithoutItems(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	now := time.Now().UTC()
	order := &entity.Order{
		ID:           "ord-1",
		PharmacyID:   "ph-001",
		CustomerName: "Alice",
		TotalRWF:     0,
		Status:       entity.OrderStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), order))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders WHERE id = 'ord-1'`).Scan(&count))
	require.Equal(t, 1, count)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM order_items WHERE order_id = 'ord-1'`).Scan(&count))
	require.Equal(t, 0, count)
}

func TestCreateOrderPersistsItemsAtomically(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	now := time.Now().UTC()
	order := &entity.Order{
		ID:           "ord-2",
		PharmacyID:   "ph-001",
		CustomerName: "Bob",
		TotalRWF:     2200,
		Status:       entity.OrderStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		Items: []entity.OrderItem{
			{MedicineID: 1, Quantity: 2, PriceRWF: 500},
			{MedicineID: 2, Quantity: 1, PriceRWF: 1200},
		},
	}
	require.NoError(t, repo.Create(context.Background(), order))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM order_items WHERE order_id = 'ord-2'`).Scan(&count))
	require.Equal(t, 2, count)
}
