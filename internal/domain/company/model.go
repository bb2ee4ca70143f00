package company

import (
	"errors"
	"strings"
	"time"
)

// MaxNameLength bounds user-entered company names.
const MaxNameLength = 100

// Domain errors
var (
	ErrEmptyName = errors.New("company name is required")
)

// Company is a brand/manufacturer referenced by catalog products.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Validate checks if the Company has valid data.
// PRE: Company struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > MaxNameLength {
		return errors.New("company name cannot exceed 100 characters")
	}
	return nil
}

// NormalizeName trims surrounding whitespace. Lookup is case-insensitive at
// the store level, so casing is preserved as entered.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
