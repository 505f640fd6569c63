package repository

import (
	"context"
	"database/sql"
	"fmt"

	"medifinder/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// Create persists the order and its line items in one transaction. Either
// everything lands or nothing does.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	orderQuery := `
		INSERT INTO orders (
			id, pharmacy_id, customer_name, customer_email, customer_phone,
			total_rwf, status, prescription_status, prescription_file,
			delivery, delivery_address, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, orderQuery,
		order.ID, order.PharmacyID, order.CustomerName,
		nullable(order.CustomerEmail), nullable(order.CustomerPhone),
		order.TotalRWF, order.Status, nullablePtr(order.PrescriptionStatus),
		nullable(order.PrescriptionFile), boolToInt(order.Delivery),
		nullable(order.DeliveryAddress), order.CreatedAt, order.UpdatedAt)
	if err != nil {
		tx.Rollback()
		return err
	}

	if len(order.Items) == 0 {
		return tx.Commit()
	}

	// Insert order items with batch
	itemQuery := `INSERT INTO order_items (order_id, medicine_id, quantity, price_rwf) VALUES `
	var values []any
	for _, item := range order.Items {
		itemQuery += "(?, ?, ?, ?),"
		values = append(values, order.ID, item.MedicineID, item.Quantity, item.PriceRWF)
	}
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err = tx.ExecContext(ctx, itemQuery, values...)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// BelongsToPharmacy reports whether the order exists AND is owned by the
// pharmacy. Callers treat both misses the same way so order ids never leak.
func (r *OrderRepository) BelongsToPharmacy(ctx context.Context, pharmacyID, orderID string) (bool, error) {
	var id string
	query := `SELECT id FROM orders WHERE id = ? AND pharmacy_id = ?`
	err := r.db.QueryRowContext(ctx, query, orderID, pharmacyID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, pharmacyID, orderID, status string, updatedAt any) error {
	query := `UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND pharmacy_id = ?`
	_, err := r.db.ExecContext(ctx, query, status, updatedAt, orderID, pharmacyID)
	return err
}

func (r *OrderRepository) UpdatePrescriptionStatus(ctx context.Context, pharmacyID, orderID, prescriptionStatus string, updatedAt any) error {
	query := `UPDATE orders SET prescription_status = ?, updated_at = ? WHERE id = ? AND pharmacy_id = ?`
	_, err := r.db.ExecContext(ctx, query, prescriptionStatus, updatedAt, orderID, pharmacyID)
	return err
}

const orderColumns = `
	o.id, o.pharmacy_id, o.customer_name, o.customer_email, o.customer_phone,
	o.total_rwf, o.status, o.prescription_status, o.prescription_file,
	o.delivery, o.delivery_address, o.created_at, o.updated_at`

// GetByPharmacy returns the pharmacy's orders newest first, each with its
// line items loaded. An empty status returns all orders.
func (r *OrderRepository) GetByPharmacy(ctx context.Context, pharmacyID, status string) ([]entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.pharmacy_id = ?`
	params := []any{pharmacyID}
	if status != "" {
		query += ` AND o.status = ?`
		params = append(params, status)
	}
	query += ` ORDER BY o.created_at DESC`

	orders, err := r.queryOrders(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// GetDetails returns one order scoped to its owning pharmacy, or
// sql.ErrNoRows when the order is missing or owned elsewhere.
func (r *OrderRepository) GetDetails(ctx context.Context, pharmacyID, orderID string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = ? AND o.pharmacy_id = ?`
	orders, err := r.queryOrders(ctx, query, orderID, pharmacyID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, sql.ErrNoRows
	}
	order := orders[0]
	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByCustomerEmail returns a customer's order history across pharmacies,
// with the pharmacy contact columns joined in.
func (r *OrderRepository) GetByCustomerEmail(ctx context.Context, email string) ([]entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `, p.name, p.phone, p.address
		FROM orders o
		JOIN pharmacies p ON o.pharmacy_id = p.id
		WHERE o.customer_email = ?
		ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		o, err := scanOrder(rows, true)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, params ...any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		o, err := scanOrder(rows, false)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) loadItems(ctx context.Context, order *entity.Order) error {
	query := `
		SELECT oi.medicine_id, m.name, m.strength, oi.quantity, oi.price_rwf
		FROM order_items oi
		JOIN medicines m ON oi.medicine_id = m.id
		WHERE oi.order_id = ?`
	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item     entity.OrderItem
			strength sql.NullString
		)
		if err := rows.Scan(&item.MedicineID, &item.Name, &strength, &item.Quantity, &item.PriceRWF); err != nil {
			return err
		}
		item.OrderID = order.ID
		item.Strength = strength.String
		order.Items = append(order.Items, item)

		display := item.Name
		if item.Strength != "" {
			display += " " + item.Strength
		}
		order.ItemSummaries = append(order.ItemSummaries, fmt.Sprintf("%s x %d", display, item.Quantity))
	}
	return rows.Err()
}

func scanOrder(row rowScanner, withPharmacy bool) (entity.Order, error) {
	var (
		o                  entity.Order
		email, phone       sql.NullString
		prescriptionStatus sql.NullString
		prescriptionFile   sql.NullString
		deliveryAddress    sql.NullString
		delivery           int
	)
	dest := []any{
		&o.ID, &o.PharmacyID, &o.CustomerName, &email, &phone,
		&o.TotalRWF, &o.Status, &prescriptionStatus, &prescriptionFile,
		&delivery, &deliveryAddress, &o.CreatedAt, &o.UpdatedAt,
	}
	if withPharmacy {
		dest = append(dest, &o.PharmacyName, &o.PharmacyPhone, &o.PharmacyAddress)
	}
	if err := row.Scan(dest...); err != nil {
		return entity.Order{}, err
	}
	o.CustomerEmail = email.String
	o.CustomerPhone = phone.String
	if prescriptionStatus.Valid {
		o.PrescriptionStatus = &prescriptionStatus.String
	}
	o.PrescriptionFile = prescriptionFile.String
	o.Delivery = delivery == 1
	o.DeliveryAddress = deliveryAddress.String
	return o, nil
}

func nullablePtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
