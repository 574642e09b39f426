package accounts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/notkisk/policeplus-api/internal/shared"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// jsonNames maps struct fields to their wire names for error messages.
var jsonNames = map[string]string{
	"Email":         "email",
	"Password":      "password",
	"Name":          "name",
	"Rank":          "rank",
	"Department":    "department",
	"BadgeNumber":   "badge_number",
	"LicenseNumber": "license_number",
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := jsonNames[fe.Field()]
		if name == "" {
			name = strings.ToLower(fe.Field())
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, name+" is required")
		case "email":
			msgs = append(msgs, name+" must be a valid email address")
		case "max":
			msgs = append(msgs, name+" is too long")
		default:
			msgs = append(msgs, name+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", shared.ErrValidation, strings.Join(msgs, "; "))
}

// normalizeEmail lowercases and trims so uniqueness is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims and applies NFC so roster names compare byte-for-byte.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func (r *OfficerRegistration) normalize() {
	r.Email = normalizeEmail(r.Email)
	r.Name = NormalizeName(r.Name)
	r.Rank = strings.TrimSpace(r.Rank)
	r.Department = strings.TrimSpace(r.Department)
	r.BadgeNumber = strings.TrimSpace(r.BadgeNumber)
}

func (r *CivilianRegistration) normalize() {
	r.Email = normalizeEmail(r.Email)
	r.Name = NormalizeName(r.Name)
	r.LicenseNumber = strings.TrimSpace(r.LicenseNumber)
}
