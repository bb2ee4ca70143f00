package category

import (
	"errors"
	"strings"
	"time"
)

// Category is a curated catalog grouping (cleanser, serum, ...). The list is
// seeded at startup and read-only for regular users.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Validate checks if the Category has valid data.
// PRE: Category struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("category name cannot be empty")
	}
	return nil
}
