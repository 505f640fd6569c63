package repository

import (
	"context"
	"database/sql"

	"medifinder/internal/entity"
)

type MedicineRepository struct {
	db *sql.DB
}

func NewMedicineRepository(db *sql.DB) *MedicineRepository {
	return &MedicineRepository{db}
}

func (r *MedicineRepository) GetAll(ctx context.Context) ([]entity.Medicine, error) {
	query := `SELECT id, name, strength, requires_prescription FROM medicines ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var medicines []entity.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	return medicines, rows.Err()
}

func (r *MedicineRepository) GetByID(ctx context.Context, id int) (*entity.Medicine, error) {
	query := `SELECT id, name, strength, requires_prescription FROM medicines WHERE id = ?`
	m, err := scanMedicine(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedicineRepository) Create(ctx context.Context, m *entity.Medicine) (*entity.Medicine, error) {
	query := `INSERT INTO medicines (name, strength, requires_prescription) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, m.Name, nullable(m.Strength), boolToInt(m.RequiresPrescription))
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	m.ID = int(id)
	return m, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedicine(row rowScanner) (entity.Medicine, error) {
	var (
		m        entity.Medicine
		strength sql.NullString
		rx       int
	)
	if err := row.Scan(&m.ID, &m.Name, &strength, &rx); err != nil {
		return entity.Medicine{}, err
	}
	m.Strength = strength.String
	m.RequiresPrescription = rx == 1
	return m, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
