package entity

import "time"

// Notification is a dashboard alert produced by the order event consumer.
type Notification struct {
	ID         int       `json:"id"`
	PharmacyID string    `json:"-"`
	OrderID    string    `json:"orderId"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

/*
MySQL Schema:

CREATE TABLE notifications (
	id INT AUTO_INCREMENT PRIMARY KEY,
	pharmacy_id VARCHAR(36) NOT NULL,
	order_id VARCHAR(64) NOT NULL,
	message TEXT NOT NULL,
	is_read TINYINT(1) NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
*/
