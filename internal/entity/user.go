package entity

type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Password   string `json:"-"` // bcrypt hash, never serialized
	Role       string `json:"role"`
	PharmacyID string `json:"pharmacyId,omitempty"` // set for pharmacy accounts only
}

const (
	RoleCustomer = "customer"
	RolePharmacy = "pharmacy"
)

/*
MySQL Schema:

CREATE TABLE users (
	id VARCHAR(64) PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	phone VARCHAR(32),
	password VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL,
	pharmacy_id VARCHAR(36)
);
*/
