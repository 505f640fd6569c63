package entity

type Pharmacy struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Sector      string       `json:"sector"`
	Address     string       `json:"address"`
	Phone       string       `json:"phone"`
	Delivery    bool         `json:"delivery"`
	Lat         float64      `json:"lat"`
	Lng         float64      `json:"lng"`
	Description string       `json:"description,omitempty"`
	Accepts     []string     `json:"accepts,omitempty"` // accepted insurance names
	Stocks      []StockEntry `json:"stocks,omitempty"`
}

// PharmacySummary is the short listing used when linking accounts at signup.
type PharmacySummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
	Phone  string `json:"phone"`
}

type InsuranceType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
