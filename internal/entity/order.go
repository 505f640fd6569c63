package entity

import "time"

// Order statuses cycle pending -> {processing|confirmed} -> {completed|ready|delivered},
// with cancelled reachable from any non-terminal state. The dashboard enforces
// that progression; the service accepts any status string from the owner.
const (
	OrderStatusPending = "pending"

	PrescriptionPending  = "pending"
	PrescriptionApproved = "approved"
	PrescriptionRejected = "rejected"
)

type Order struct {
	ID                 string      `json:"id"`
	PharmacyID         string      `json:"pharmacyId"`
	CustomerName       string      `json:"customerName"`
	CustomerEmail      string      `json:"customerEmail,omitempty"`
	CustomerPhone      string      `json:"customerPhone,omitempty"`
	TotalRWF           int         `json:"totalRWF"`
	Status             string      `json:"status"`
	PrescriptionStatus *string     `json:"prescriptionStatus"` // nil means no prescription needed
	PrescriptionFile   string      `json:"prescriptionFile,omitempty"`
	Delivery           bool        `json:"delivery"`
	DeliveryAddress    string      `json:"deliveryAddress,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
	Items              []OrderItem `json:"itemDetails,omitempty"`
	ItemSummaries      []string    `json:"items,omitempty"` // "Name Strength x N" display strings

	// Joined pharmacy columns for the customer order history view.
	PharmacyName    string `json:"pharmacyName,omitempty"`
	PharmacyPhone   string `json:"pharmacyPhone,omitempty"`
	PharmacyAddress string `json:"pharmacyAddress,omitempty"`
}

// OrderItem captures the unit price at order time. Later stock price changes
// never touch it.
type OrderItem struct {
	OrderID    string `json:"-"`
	MedicineID int    `json:"medicineId"`
	Name       string `json:"name,omitempty"`
	Strength   string `json:"strength,omitempty"`
	Quantity   int    `json:"quantity"`
	PriceRWF   int    `json:"priceRWF"`
}

/*
MySQL Schema:

CREATE TABLE orders (
	id VARCHAR(64) PRIMARY KEY,
	pharmacy_id VARCHAR(36) NOT NULL,
	customer_name VARCHAR(255) NOT NULL,
	customer_email VARCHAR(255),
	customer_phone VARCHAR(32),
	total_rwf INT NOT NULL,
	status VARCHAR(20) NOT NULL,
	prescription_status VARCHAR(20),
	prescription_file VARCHAR(255),
	delivery TINYINT(1) NOT NULL DEFAULT 0,
	delivery_address TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE order_items (
	order_id VARCHAR(64) NOT NULL,
	medicine_id INT NOT NULL,
	quantity INT NOT NULL,
	price_rwf INT NOT NULL
);
*/
