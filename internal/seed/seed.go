// Package seed populates the store from the fixed launch catalog. A run
// clears and repopulates the reference tables; any storage failure aborts
// the whole seed.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"medifinder/internal/entity"
	"medifinder/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Seeder writes the catalog into the store. The randomness source is
// injected so tests can seed deterministic prices and quantities.
type Seeder struct {
	db  *sql.DB
	rng *rand.Rand
}

func New(db *sql.DB, rng *rand.Rand) *Seeder {
	return &Seeder{db: db, rng: rng}
}

// randomPriceRWF returns a price between 500 and 5000 RWF.
func (s *Seeder) randomPriceRWF() int {
	return s.rng.Intn(4501) + 500
}

// randomQuantity returns a quantity between 0 and 100.
func (s *Seeder) randomQuantity() int {
	return s.rng.Intn(101)
}

// Run clears the reference tables in dependency order and repopulates them
// from the catalog.
func (s *Seeder) Run(ctx context.Context) error {
	logger.Info().Msg("Starting database seed")

	clears := []string{
		`DELETE FROM pharmacy_stocks`,
		`DELETE FROM pharmacy_insurance`,
		`DELETE FROM pharmacies`,
		`DELETE FROM medicines`,
		`DELETE FROM insurance_types`,
	}
	for _, query := range clears {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	insuranceIDs, err := s.insertInsuranceTypes(ctx)
	if err != nil {
		return err
	}
	if err := s.insertPharmacies(ctx, insuranceIDs); err != nil {
		return err
	}
	medicineIDs, err := s.insertMedicines(ctx)
	if err != nil {
		return err
	}
	if err := s.insertStocks(ctx, medicineIDs); err != nil {
		return err
	}

	logger.Info().Msg("Database seeded successfully")
	return nil
}

func (s *Seeder) insertInsuranceTypes(ctx context.Context) (map[string]int, error) {
	ids := make(map[string]int, len(InsuranceNames))
	for _, name := range InsuranceNames {
		res, err := s.db.ExecContext(ctx, `INSERT INTO insurance_types (name) VALUES (?)`, name)
		if err != nil {
			return nil, fmt.Errorf("insert insurance type %q: %w", name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids[name] = int(id)
	}
	return ids, nil
}

func (s *Seeder) insertPharmacies(ctx context.Context, insuranceIDs map[string]int) error {
	pharmacyQuery := `
		INSERT INTO pharmacies (id, name, sector, address, phone, delivery, lat, lng, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	linkQuery := `INSERT INTO pharmacy_insurance (pharmacy_id, insurance_id) VALUES (?, ?)`

	for _, p := range Pharmacies {
		delivery := 0
		if p.Delivery {
			delivery = 1
		}
		var description any
		if p.Description != "" {
			description = p.Description
		}
		_, err := s.db.ExecContext(ctx, pharmacyQuery,
			p.ID, p.Name, p.Sector, p.Address, p.Phone, delivery, p.Lat, p.Lng, description)
		if err != nil {
			return fmt.Errorf("insert pharmacy %s: %w", p.ID, err)
		}

		for _, insuranceName := range p.Insurance {
			id, ok := insuranceIDs[insuranceName]
			if !ok {
				continue
			}
			if _, err := s.db.ExecContext(ctx, linkQuery, p.ID, id); err != nil {
				return fmt.Errorf("link insurance for %s: %w", p.ID, err)
			}
		}
	}
	return nil
}

// insertMedicines collapses every parsed stock label across all pharmacies
// into one medicine per (name, strength) pair; the first observation of a
// pair decides the prescription flag. Returns the catalog key -> id map.
func (s *Seeder) insertMedicines(ctx context.Context) (map[string]int, error) {
	seen := make(map[string]entity.Medicine)
	var order []string
	for _, p := range Pharmacies {
		for _, label := range p.Stocks {
			name, strength, rx := ParseStockLabel(label)
			key := medicineKey(name, strength)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = entity.Medicine{Name: name, Strength: strength, RequiresPrescription: rx}
			order = append(order, key)
		}
	}

	query := `INSERT INTO medicines (name, strength, requires_prescription) VALUES (?, ?, ?)`
	ids := make(map[string]int, len(order))
	for _, key := range order {
		m := seen[key]
		var strength any
		if m.Strength != "" {
			strength = m.Strength
		}
		rx := 0
		if m.RequiresPrescription {
			rx = 1
		}
		res, err := s.db.ExecContext(ctx, query, m.Name, strength, rx)
		if err != nil {
			return nil, fmt.Errorf("insert medicine %q: %w", m.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids[key] = int(id)
	}
	return ids, nil
}

func (s *Seeder) insertStocks(ctx context.Context, medicineIDs map[string]int) error {
	query := `INSERT INTO pharmacy_stocks (pharmacy_id, medicine_id, price_rwf, quantity) VALUES (?, ?, ?, ?)`
	stocked := make(map[string]bool)
	for _, p := range Pharmacies {
		for _, label := range p.Stocks {
			name, strength, _ := ParseStockLabel(label)
			id, ok := medicineIDs[medicineKey(name, strength)]
			if !ok {
				continue
			}
			// one stock row per (pharmacy, medicine), duplicate labels insert once
			seenKey := fmt.Sprintf("%s/%d", p.ID, id)
			if stocked[seenKey] {
				continue
			}
			stocked[seenKey] = true
			_, err := s.db.ExecContext(ctx, query, p.ID, id, s.randomPriceRWF(), s.randomQuantity())
			if err != nil {
				return fmt.Errorf("insert stock for %s: %w", p.ID, err)
			}
		}
	}
	return nil
}

func medicineKey(name, strength string) string {
	if strength != "" {
		return name + "(" + strength + ")"
	}
	return name
}

// ProvisionPharmacyUsers creates a dashboard login for every pharmacy that
// has none yet: <slugified-name>@medifinder.local with the default password.
func ProvisionPharmacyUsers(ctx context.Context, db *sql.DB, defaultPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	missing, err := userRepo.PharmaciesWithoutUsers(ctx)
	if err != nil {
		return err
	}

	for _, p := range missing {
		email := slugify(p.Name) + "@medifinder.local"

		existing, err := userRepo.GetByEmail(ctx, email)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		if existing != nil {
			logger.Warn().Str("email", email).Msgf("Email already exists, skipping %s", p.Name)
			continue
		}

		user := &entity.User{
			ID:         fmt.Sprintf("pharmacy-%d-%06d", time.Now().UnixMilli(), rand.Intn(1000000)),
			Email:      email,
			Name:       p.Name,
			Phone:      p.Phone,
			Password:   string(hash),
			Role:       entity.RolePharmacy,
			PharmacyID: p.ID,
		}
		if _, err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create account for %s: %w", p.Name, err)
		}
		logger.Info().Msgf("Created account for %s", p.Name)
	}
	return nil
}

func slugify(name string) string {
	slug := strings.ToLower(name)
	slug = strings.Join(strings.Fields(slug), "-")
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
