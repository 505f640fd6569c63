package repository

import (
	"context"
	"database/sql"
	"time"

	"medifinder/internal/entity"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `INSERT INTO notifications (pharmacy_id, order_id, message, is_read, created_at) VALUES (?, ?, ?, 0, ?)`
	res, err := r.db.ExecContext(ctx, query, n.PharmacyID, n.OrderID, n.Message, n.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = int(id)
	return nil
}

func (r *NotificationRepository) GetByPharmacy(ctx context.Context, pharmacyID string) ([]entity.Notification, error) {
	query := `
		SELECT id, order_id, message, is_read, created_at
		FROM notifications WHERE pharmacy_id = ?
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, pharmacyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []entity.Notification
	for rows.Next() {
		var (
			n       entity.Notification
			read    int
			created time.Time
		)
		if err := rows.Scan(&n.ID, &n.OrderID, &n.Message, &read, &created); err != nil {
			return nil, err
		}
		n.PharmacyID = pharmacyID
		n.Read = read == 1
		n.CreatedAt = created
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flips the read flag, scoped to the owning pharmacy. Returns
// sql.ErrNoRows semantics through the exists check in the service layer.
func (r *NotificationRepository) MarkRead(ctx context.Context, pharmacyID string, id int) (bool, error) {
	var found int
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM notifications WHERE id = ? AND pharmacy_id = ?`, id, pharmacyID).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND pharmacy_id = ?`, id, pharmacyID)
	return err == nil, err
}
