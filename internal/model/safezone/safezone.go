package safezone

// SafeZone is a curated public meeting location suggested to counterparties.
// The catalog is read-only; this core never mutates it.
type SafeZone struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	ZipCode  string   `json:"zipCode"`
	Type     string   `json:"type"`
	Features []string `json:"features,omitempty"`
}

// Seed provides the default curated meeting spots.
func Seed() []SafeZone {
	return []SafeZone{
		{
			ID:       "sz-pd-central",
			Name:     "Central Police Station",
			Address:  "405 Murray Ridge Rd",
			City:     "Springfield",
			ZipCode:  "45501",
			Type:     "police_station",
			Features: []string{"24/7 monitored", "security cameras", "designated exchange spots"},
		},
		{
			ID:       "sz-pd-north",
			Name:     "North Precinct Exchange Zone",
			Address:  "1180 Northgate Blvd",
			City:     "Springfield",
			ZipCode:  "45503",
			Type:     "police_station",
			Features: []string{"security cameras", "well lit", "marked parking"},
		},
		{
			ID:       "sz-courthouse",
			Name:     "County Courthouse Parking Lot",
			Address:  "50 E Columbia St",
			City:     "Springfield",
			ZipCode:  "45502",
			Type:     "government",
			Features: []string{"security patrol", "daytime hours"},
		},
		{
			ID:       "sz-dmv-lot",
			Name:     "DMV Customer Lot",
			Address:  "2497 Commerce Dr",
			City:     "Riverton",
			ZipCode:  "45601",
			Type:     "government",
			Features: []string{"security cameras", "busy during business hours"},
		},
		{
			ID:       "sz-mall-security",
			Name:     "Riverton Mall Security Office Lot",
			Address:  "800 Mall Ring Rd",
			City:     "Riverton",
			ZipCode:  "45602",
			Type:     "retail",
			Features: []string{"on-site security", "security cameras", "well lit"},
		},
	}
}
