package seed

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

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

func TestParseStockLabel(t *testing.T) {
	name, strength, rx := ParseStockLabel("Paracetamol (500mg)")
	require.Equal(t, "Paracetamol", name)
	require.Equal(t, "500mg", strength)
	require.False(t, rx)

	name, strength, rx = ParseStockLabel("Azithromycin (suspension)")
	require.Equal(t, "Azithromycin", name)
	require.Equal(t, "suspension", strength)
	require.True(t, rx)

	name, strength, rx = ParseStockLabel("Hand sanitizer")
	require.Equal(t, "Hand sanitizer", name)
	require.Equal(t, "", strength)
	require.False(t, rx)

	name, strength, _ = ParseStockLabel("Tramadol (50mg")
	require.Equal(t, "Tramadol", name)
	require.Equal(t, "50mg", strength)
}

func TestSeedPopulatesCatalog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := New(db, rand.New(rand.NewSource(1)))
	require.NoError(t, s.Run(ctx))

	var pharmacies int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pharmacies`).Scan(&pharmacies))
	require.Equal(t, len(Pharmacies), pharmacies)

	var insurance int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM insurance_types`).Scan(&insurance))
	require.Equal(t, len(InsuranceNames), insurance)

	// (name, strength) pairs are unique after dedup across pharmacies.
	var medicines, distinct int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM medicines`).Scan(&medicines))
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM (SELECT DISTINCT name, strength FROM medicines)`).Scan(&distinct))
	require.Equal(t, distinct, medicines)
	require.Greater(t, medicines, 0)
}

func TestSeedReRunCreatesNoDuplicates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := New(db, rand.New(rand.NewSource(1)))
	require.NoError(t, s.Run(ctx))

	var before int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM medicines`).Scan(&before))

	require.NoError(t, s.Run(ctx))

	var after int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM medicines`).Scan(&after))
	require.Equal(t, before, after)

	var stocks, distinctStocks int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pharmacy_stocks`).Scan(&stocks))
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM (SELECT DISTINCT pharmacy_id, medicine_id FROM pharmacy_stocks)`).Scan(&distinctStocks))
	require.Equal(t, distinctStocks, stocks)
}

func TestSeedPriceAndQuantityRanges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, New(db, rand.New(rand.NewSource(42))).Run(ctx))

	rows, err := db.Query(`SELECT price_rwf, quantity FROM pharmacy_stocks`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var price, quantity int
		require.NoError(t, rows.Scan(&price, &quantity))
		require.GreaterOrEqual(t, price, 500)
		require.LessOrEqual(t, price, 5000)
		require.GreaterOrEqual(t, quantity, 0)
		require.LessOrEqual(t, quantity, 100)
	}
	require.NoError(t, rows.Err())
}

func TestProvisionPharmacyUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, New(db, rand.New(rand.NewSource(1))).Run(ctx))
	require.NoError(t, ProvisionPharmacyUsers(ctx, db, "pharmacy123"))

	var users int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = 'pharmacy'`).Scan(&users))
	require.Equal(t, len(Pharmacies), users)

	// A second provisioning run is a no-op.
	require.NoError(t, ProvisionPharmacyUsers(ctx, db, "pharmacy123"))
	var again int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&again))
	require.Equal(t, users, again)

	var email string
	require.NoError(t, db.QueryRow(
		`SELECT u.email FROM users u JOIN pharmacies p ON u.pharmacy_id = p.id WHERE p.id = 'ph-001'`).Scan(&email))
	require.Contains(t, email, "@medifinder.local")
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "kipharma-city-centre", slugify("Kipharma City Centre"))
	require.Equal(t, "pharmacie-du-calme", slugify("Pharmacie du Calme!"))
}
