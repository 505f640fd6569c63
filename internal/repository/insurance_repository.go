package repository

import (
	"context"
	"database/sql"

	"medifinder/internal/entity"
)

type InsuranceRepository struct {
	db *sql.DB
}

func NewInsuranceRepository(db *sql.DB) *InsuranceRepository {
	return &InsuranceRepository{db}
}

func (r *InsuranceRepository) GetAllTypes(ctx context.Context) ([]entity.InsuranceType, error) {
	query := `SELECT id, name FROM insurance_types ORDER BY name`
	return r.queryTypes(ctx, query)
}

// GetPartners returns the insurance types the pharmacy accepts.
func (r *InsuranceRepository) GetPartners(ctx context.Context, pharmacyID string) ([]entity.InsuranceType, error) {
	query := `
		SELECT it.id, it.name
		FROM pharmacy_insurance pi
		JOIN insurance_types it ON pi.insurance_id = it.id
		WHERE pi.pharmacy_id = ?
		ORDER BY it.name`
	return r.queryTypes(ctx, query, pharmacyID)
}

func (r *InsuranceRepository) LinkExists(ctx context.Context, pharmacyID string, insuranceID int) (bool, error) {
	var one int
	query := `SELECT 1 FROM pharmacy_insurance WHERE pharmacy_id = ? AND insurance_id = ?`
	err := r.db.QueryRowContext(ctx, query, pharmacyID, insuranceID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *InsuranceRepository) AddLink(ctx context.Context, pharmacyID string, insuranceID int) error {
	query := `INSERT INTO pharmacy_insurance (pharmacy_id, insurance_id) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, query, pharmacyID, insuranceID)
	return err
}

func (r *InsuranceRepository) RemoveLink(ctx context.Context, pharmacyID string, insuranceID int) error {
	query := `DELETE FROM pharmacy_insurance WHERE pharmacy_id = ? AND insurance_id = ?`
	_, err := r.db.ExecContext(ctx, query, pharmacyID, insuranceID)
	return err
}

func (r *InsuranceRepository) queryTypes(ctx context.Context, query string, args ...any) ([]entity.InsuranceType, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []entity.InsuranceType
	for rows.Next() {
		var t entity.InsuranceType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
