package repository

import (
	"context"
	"database/sql"
	"fmt"

	"medifinder/internal/entity"
)

type StockRepository struct {
	db *sql.DB
}

func NewStockRepository(db *sql.DB) *StockRepository {
	return &StockRepository{db}
}

// GetByPharmacy returns the pharmacy's full stock listing with the medicine
// columns joined in, ordered by medicine name.
func (r *StockRepository) GetByPharmacy(ctx context.Context, pharmacyID string) ([]entity.StockEntry, error) {
	query := `
		SELECT ps.id, ps.medicine_id, m.name, m.strength, m.requires_prescription, ps.price_rwf, ps.quantity
		FROM pharmacy_stocks ps
		JOIN medicines m ON ps.medicine_id = m.id
		WHERE ps.pharmacy_id = ?
		ORDER BY m.name`
	rows, err := r.db.QueryContext(ctx, query, pharmacyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []entity.StockEntry
	for rows.Next() {
		var (
			s        entity.StockEntry
			strength sql.NullString
			rx       int
		)
		if err := rows.Scan(&s.StockID, &s.MedicineID, &s.Name, &strength, &rx, &s.PriceRWF, &s.Quantity); err != nil {
			return nil, err
		}
		s.ID = fmt.Sprintf("med-%d", s.MedicineID)
		s.PharmacyID = pharmacyID
		s.Strength = strength.String
		s.RequiresPrescription = rx == 1
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// Exists reports whether the pharmacy already stocks the medicine.
func (r *StockRepository) Exists(ctx context.Context, pharmacyID string, medicineID int) (bool, error) {
	var id int
	query := `SELECT id FROM pharmacy_stocks WHERE pharmacy_id = ? AND medicine_id = ?`
	err := r.db.QueryRowContext(ctx, query, pharmacyID, medicineID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *StockRepository) Add(ctx context.Context, pharmacyID string, medicineID, quantity, priceRWF int) error {
	query := `INSERT INTO pharmacy_stocks (pharmacy_id, medicine_id, quantity, price_rwf) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, pharmacyID, medicineID, quantity, priceRWF)
	return err
}

func (r *StockRepository) Update(ctx context.Context, pharmacyID string, medicineID, quantity, priceRWF int) error {
	query := `UPDATE pharmacy_stocks SET quantity = ?, price_rwf = ? WHERE pharmacy_id = ? AND medicine_id = ?`
	_, err := r.db.ExecContext(ctx, query, quantity, priceRWF, pharmacyID, medicineID)
	return err
}

func (r *StockRepository) Delete(ctx context.Context, pharmacyID string, medicineID int) error {
	query := `DELETE FROM pharmacy_stocks WHERE pharmacy_id = ? AND medicine_id = ?`
	_, err := r.db.ExecContext(ctx, query, pharmacyID, medicineID)
	return err
}
