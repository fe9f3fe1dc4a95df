package listing

import "time"

// Status tracks whether a listing is still on the market.
type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
)

// Listing is a motorcycle for sale.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	Price       float64   `json:"price"`
	City        string    `json:"city"`
	ZipCode     string    `json:"zipCode"`
	SellerID    string    `json:"sellerId"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Filter narrows a listing search. Empty fields match everything.
type Filter struct {
	City    string
	ZipCode string
	Query   string // substring match on title
}

// Seed provides sample inventory for development and the seeding tool.
func Seed() []Listing {
	return []Listing{
		{
			Title:       "2019 Triumph Street Triple RS",
			Make:        "Triumph",
			Model:       "Street Triple RS",
			Year:        2019,
			Price:       10000,
			City:        "Springfield",
			ZipCode:     "45501",
			SellerID:    "seed-seller-1",
			Description: "One owner, 8k miles, full service history.",
		},
		{
			Title:       "2021 Yamaha MT-07",
			Make:        "Yamaha",
			Model:       "MT-07",
			Year:        2021,
			Price:       6800,
			City:        "Springfield",
			ZipCode:     "45503",
			SellerID:    "seed-seller-2",
			Description: "Stock apart from frame sliders. Never dropped.",
		},
		{
			Title:       "2016 Harley-Davidson Iron 883",
			Make:        "Harley-Davidson",
			Model:       "Iron 883",
			Year:        2016,
			Price:       7500,
			City:        "Riverton",
			ZipCode:     "45601",
			SellerID:    "seed-seller-3",
			Description: "Vance & Hines exhaust, new battery and tires.",
		},
	}
}
