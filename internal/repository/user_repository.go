package repository

import (
	"context"
	"database/sql"

	"medifinder/internal/entity"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (id, email, name, phone, password, role, pharmacy_id) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, nullable(user.Phone),
		user.Password, user.Role, nullable(user.PharmacyID))
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT id, email, name, phone, password, role, pharmacy_id FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT id, email, name, phone, password, role, pharmacy_id FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// PharmacyIDForUser resolves the pharmacy an account is linked to. Empty
// means the account has no pharmacy link.
func (r *UserRepository) PharmacyIDForUser(ctx context.Context, userID string) (string, error) {
	var pharmacyID sql.NullString
	query := `SELECT pharmacy_id FROM users WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&pharmacyID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return pharmacyID.String, nil
}

// PharmaciesWithoutUsers lists pharmacies that have no linked account yet,
// used when provisioning dashboard logins.
func (r *UserRepository) PharmaciesWithoutUsers(ctx context.Context) ([]entity.PharmacySummary, error) {
	query := `
		SELECT p.id, p.name, p.sector, p.phone
		FROM pharmacies p
		LEFT JOIN users u ON p.id = u.pharmacy_id
		WHERE u.id IS NULL
		ORDER BY p.name`
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

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		user       entity.User
		phone      sql.NullString
		pharmacyID sql.NullString
	)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &phone, &user.Password, &user.Role, &pharmacyID)
	if err != nil {
		return nil, err
	}
	user.Phone = phone.String
	user.PharmacyID = pharmacyID.String
	return &user, nil
}
