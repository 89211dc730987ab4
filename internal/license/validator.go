package license

import (
	"errors"
	"strings"
	"time"

	"github.com/brimblehq/licenses/internal/types"
)

const (
	ReasonWrongProduct = "not a valid license for this product"
	ReasonExpired      = "license has expired"
)

var ErrRejected = errors.New("license rejected")

// RejectionError carries the reason shown to the user when a decoded
// license is not acceptable.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

type Validator struct {
	products []string
}

// NewValidator accepts licenses whose product contains any of the given
// tokens, compared case-insensitively.
func NewValidator(products ...string) *Validator {
	v := &Validator{}
	for _, p := range products {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			v.products = append(v.products, p)
		}
	}
	return v
}

func (v *Validator) Products() []string {
	return append([]string(nil), v.products...)
}

func (v *Validator) CheckProduct(record types.LicenseRecord) error {
	product := strings.ToUpper(record.Product)
	for _, token := range v.products {
		if strings.Contains(product, token) {
			return nil
		}
	}
	return &RejectionError{Reason: ReasonWrongProduct}
}

func (v *Validator) CheckExpiry(record types.LicenseRecord, today time.Time) error {
	if today.Format(DateLayout) > record.Expires {
		return &RejectionError{Reason: ReasonExpired}
	}
	return nil
}

// Validate runs the product check, then the expiry check, and returns the
// first rejection.
func (v *Validator) Validate(record types.LicenseRecord, today time.Time) error {
	if err := v.CheckProduct(record); err != nil {
		return err
	}
	return v.CheckExpiry(record, today)
}
