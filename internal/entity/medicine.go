package entity

type Medicine struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	Strength             string `json:"strength,omitempty"`
	RequiresPrescription bool   `json:"requiresPrescription"`
}

// StockEntry is one priced, quantified offering of a medicine by a pharmacy.
// The medicine columns are joined in so listings and matching never need a
// second query.
type StockEntry struct {
	ID                   string `json:"id"` // display id, "med-<medicineId>"
	StockID              int    `json:"stockId"`
	MedicineID           int    `json:"medicineId"`
	PharmacyID           string `json:"-"`
	Name                 string `json:"name"`
	Strength             string `json:"strength,omitempty"`
	PriceRWF             int    `json:"priceRWF"`
	RequiresPrescription bool   `json:"requiresPrescription"`
	Quantity             int    `json:"quantity"`
}

/*
MySQL Schema:

CREATE TABLE medicines (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	strength VARCHAR(255),
	requires_prescription TINYINT(1) NOT NULL DEFAULT 0
);

CREATE TABLE pharmacy_stocks (
	id INT AUTO_INCREMENT PRIMARY KEY,
	pharmacy_id VARCHAR(36) NOT NULL,
	medicine_id INT NOT NULL,
	price_rwf INT NOT NULL,
	quantity INT NOT NULL
);
*/
