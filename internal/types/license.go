package types

// LicenseKey is the opaque text a customer pastes in. Two keys are the same
// license when their text is identical.
type LicenseKey string

type LicenseRecord struct {
	Name      string     `json:"name"`
	Company   string     `json:"company"`
	Email     string     `json:"email"`
	Expires   string     `json:"expires" validate:"len=8,numeric,datetime=20060102"`
	Product   string     `json:"product"`
	Reference string     `json:"reference"`
	Key       LicenseKey `json:"-"`
}
