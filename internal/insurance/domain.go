// Package insurance holds the insurance lookup client used by the vehicle
// aggregation and the standalone insurance service it talks to.
package insurance

// DateLayout is the wire format of coverage dates.
const DateLayout = "2006-01-02"

// Record is the coverage window for a plate, owned by the insurance service.
type Record struct {
	LicensePlate string `json:"license_plate,omitempty"`
	Start        string `json:"insurance_start"`
	End          string `json:"insurance_end"`
}
