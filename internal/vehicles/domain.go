package vehicles

import "time"

// Vehicle is a registry row keyed by license plate.
type Vehicle struct {
	LicensePlate  string `json:"license_plate"`
	DriverLicense string `json:"driver_license"`
	OwnerName     string `json:"owner_name"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	Color         string `json:"color"`
	Year          int    `json:"year"`
	Stolen        bool   `json:"stolen_car"`
}

// Citation is an issued ticket. Rows are append-only.
type Citation struct {
	ID            int64     `json:"id"`
	DriverLicense string    `json:"driver_license"`
	TicketType    string    `json:"ticket_type"`
	Details       string    `json:"details"`
	OfficerName   string    `json:"officer_name"`
	OfficerBadge  string    `json:"officer_badge"`
	CreatedAt     time.Time `json:"created_at"`
}

// View is the composite vehicle response. Field order is vehicle, insurance, tickets.
type View struct {
	Vehicle
	InsuranceStart string     `json:"insurance_start"`
	InsuranceEnd   string     `json:"insurance_end"`
	Tickets        []Citation `json:"tickets"`
}

// CitationInput is the body of POST /ticket.
type CitationInput struct {
	DriverLicense string `json:"driver_license" validate:"required,max=64"`
	TicketType    string `json:"ticket_type" validate:"required,max=128"`
	Details       string `json:"details" validate:"max=2000"`
	OfficerName   string `json:"officer_name" validate:"max=128"`
	OfficerBadge  string `json:"officer_badge" validate:"max=64"`
}
