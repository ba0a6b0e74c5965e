package properties

import "time"

// Property statuses.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Property is a managed building or parcel.
type Property struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullAddress joins the address parts for geocoding.
func (p Property) FullAddress() string {
	out := p.Address
	if p.City != "" {
		out += ", " + p.City
	}
	if p.State != "" {
		out += ", " + p.State
	}
	if p.Zip != "" {
		out += " " + p.Zip
	}
	return out
}

// Unit is a rentable space within a property.
type Unit struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	Label      string    `json:"label"`
	Bedrooms   int       `json:"bedrooms"`
	Bathrooms  float64   `json:"bathrooms"`
	Rent       int64     `json:"rent_cents"`
	Occupied   bool      `json:"occupied"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func validStatus(s string) bool {
	return s == StatusActive || s == StatusArchived
}
