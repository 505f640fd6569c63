package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"medifinder/migrations"
)

// newTestDB opens an in-memory store with the schema applied and a small
// fixture: two pharmacies, three medicines, and stock for the first one.
//
// Fixture medicine ids: 1 Paracetamol 500mg (qty 10, 500 RWF),
// 2 Tramadol 50mg prescription (qty 3, 1000 RWF), 3 Glucose 5% w/v
// (qty 7, 800 RWF). Pharmacy ph-001 stocks all three; ph-002 none.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	t.Setenv("ENV", "test")

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.AutoMigrate("sqlite", 1, db))

	ctx := context.Background()
	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO pharmacies (id, name, sector, address, phone, delivery, lat, lng, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			[]any{"ph-001", "Kipharma City Centre", "Nyarugenge", "KN 4 Ave", "+250788111111", 1, -1.9441, 30.0619, "Central branch"}},
		{`INSERT INTO pharmacies (id, name, sector, address, phone, delivery, lat, lng, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			[]any{"ph-002", "Pharmacie du Calme", "Kicukiro", "KK 15 Rd", "+250788222222", 0, -1.9706, 30.1044, nil}},
		{`INSERT INTO medicines (id, name, strength, requires_prescription) VALUES (1, 'Paracetamol', '500mg', 0)`, nil},
		{`INSERT INTO medicines (id, name, strength, requires_prescription) VALUES (2, 'Tramadol', '50mg', 1)`, nil},
		{`INSERT INTO medicines (id, name, strength, requires_prescription) VALUES (3, 'Glucose', '5% w/v', 0)`, nil},
		{`INSERT INTO pharmacy_stocks (pharmacy_id, medicine_id, price_rwf, quantity) VALUES ('ph-001', 1, 500, 10)`, nil},
		{`INSERT INTO pharmacy_stocks (pharmacy_id, medicine_id, price_rwf, quantity) VALUES ('ph-001', 2, 1000, 3)`, nil},
		{`INSERT INTO pharmacy_stocks (pharmacy_id, medicine_id, price_rwf, quantity) VALUES ('ph-001', 3, 800, 7)`, nil},
		{`INSERT INTO insurance_types (id, name) VALUES (1, 'Britam')`, nil},
		{`INSERT INTO insurance_types (id, name) VALUES (2, 'Radiant Insurance')`, nil},
		{`INSERT INTO pharmacy_insurance (pharmacy_id, insurance_id) VALUES ('ph-001', 1)`, nil},
	}
	for _, s := range stmts {
		_, err := db.ExecContext(ctx, s.query, s.args...)
		require.NoError(t, err)
	}
	return db
}

func withinLastMinute(t *testing.T, ts time.Time) {
	t.Helper()
	require.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}
