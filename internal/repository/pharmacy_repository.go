package repository

import (
	"context"
	"database/sql"
	"strings"

	"medifinder/internal/entity"
)

type PharmacyRepository struct {
	db *sql.DB
}

func NewPharmacyRepository(db *sql.DB) *PharmacyRepository {
	return &PharmacyRepository{db}
}

// SearchFilter narrows the pharmacy search. All fields are optional and
// combine with AND. Q matches stocked medicine names, Location matches the
// sector, Insurance matches an accepted insurance name.
type SearchFilter struct {
	Q         string
	Location  string
	Insurance string
}

func (r *PharmacyRepository) Search(ctx context.Context, f SearchFilter) ([]entity.Pharmacy, error) {
	query := `
		SELECT p.id, p.name, p.sector, p.address, p.phone, p.delivery, p.lat, p.lng, p.description
		FROM pharmacies p
		WHERE 1 = 1`
	var params []any

	if f.Location != "" {
		query += ` AND LOWER(p.sector) LIKE ?`
		params = append(params, "%"+strings.ToLower(f.Location)+"%")
	}
	if f.Insurance != "" {
		query += ` AND EXISTS (
			SELECT 1 FROM pharmacy_insurance pi
			JOIN insurance_types it ON pi.insurance_id = it.id
			WHERE pi.pharmacy_id = p.id AND LOWER(it.name) = LOWER(?))`
		params = append(params, f.Insurance)
	}
	if f.Q != "" {
		query += ` AND EXISTS (
			SELECT 1 FROM pharmacy_stocks ps
			JOIN medicines m ON ps.medicine_id = m.id
			WHERE ps.pharmacy_id = p.id AND LOWER(m.name) LIKE ?)`
		params = append(params, "%"+strings.ToLower(f.Q)+"%")
	}

	query += ` ORDER BY p.name`

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pharmacies []entity.Pharmacy
	for rows.Next() {
		p, err := scanPharmacy(rows)
		if err != nil {
			return nil, err
		}
		pharmacies = append(pharmacies, p)
	}
	return pharmacies, rows.Err()
}

func (r *PharmacyRepository) GetByID(ctx context.Context, id string) (*entity.Pharmacy, error) {
	query := `
		SELECT id, name, sector, address, phone, delivery, lat, lng, description
		FROM pharmacies WHERE id = ?`
	p, err := scanPharmacy(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll returns the short listing used for account linking at signup.
func (r *PharmacyRepository) ListAll(ctx context.Context) ([]entity.PharmacySummary, error) {
	query := `SELECT id, name, sector, phone FROM pharmacies ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []entity.PharmacySummary
	for rows.Next() {
		var s entity.PharmacySummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Sector, &s.Phone); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func scanPharmacy(row rowScanner) (entity.Pharmacy, error) {
	var (
		p           entity.Pharmacy
		delivery    int
		description sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Sector, &p.Address, &p.Phone, &delivery, &p.Lat, &p.Lng, &description)
	if err != nil {
		return entity.Pharmacy{}, err
	}
	p.Delivery = delivery == 1
	p.Description = description.String
	return p, nil
}
