package migrations

import (
	"database/sql"
	"fmt"
	"time"
)

// serialPK returns the auto-increment primary key fragment for the driver.
// MySQL is the production store; the pure-Go sqlite driver backs tests and
// single-binary deployments.
func serialPK(driver string) string {
	if driver == "sqlite" {
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "INT AUTO_INCREMENT PRIMARY KEY"
}

func statements(driver string) []string {
	return []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS insurance_types (
			id %s,
			name VARCHAR(255) NOT NULL UNIQUE
		);`, serialPK(driver)),
		`
		CREATE TABLE IF NOT EXISTS pharmacies (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			sector VARCHAR(100) NOT NULL,
			address VARCHAR(255) NOT NULL,
			phone VARCHAR(32) NOT NULL,
			delivery TINYINT(1) NOT NULL DEFAULT 0,
			lat DOUBLE NOT NULL,
			lng DOUBLE NOT NULL,
			description TEXT
		);`,
		`
		CREATE TABLE IF NOT EXISTS pharmacy_insurance (
			pharmacy_id VARCHAR(36) NOT NULL,
			insurance_id INT NOT NULL,
			UNIQUE (pharmacy_id, insurance_id)
		);`,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS medicines (
			id %s,
			name VARCHAR(255) NOT NULL,
			strength VARCHAR(255),
			requires_prescription TINYINT(1) NOT NULL DEFAULT 0
		);`, serialPK(driver)),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS pharmacy_stocks (
			id %s,
			pharmacy_id VARCHAR(36) NOT NULL,
			medicine_id INT NOT NULL,
			price_rwf INT NOT NULL,
			quantity INT NOT NULL,
			UNIQUE (pharmacy_id, medicine_id)
		);`, serialPK(driver)),
		`
		CREATE TABLE IF NOT EXISTS orders (
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
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`
		CREATE TABLE IF NOT EXISTS order_items (
			order_id VARCHAR(64) NOT NULL,
			medicine_id INT NOT NULL,
			quantity INT NOT NULL,
			price_rwf INT NOT NULL
		);`,
		`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(32),
			password VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL,
			pharmacy_id VARCHAR(36)
		);`,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS notifications (
			id %s,
			pharmacy_id VARCHAR(36) NOT NULL,
			order_id VARCHAR(64) NOT NULL,
			message TEXT NOT NULL,
			is_read TINYINT(1) NOT NULL DEFAULT 0,
			created_at DATETIME
		);`, serialPK(driver)),
	}
}

// AutoMigrate creates every table the service needs if it does not exist.
// Transient failures (store still starting up) are retried.
func AutoMigrate(driver string, retries int, db *sql.DB) error {
	for _, query := range statements(driver) {
		_, err := db.Exec(query)
		for i := 0; err != nil && i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.Exec(query)
		}
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
