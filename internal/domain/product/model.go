package product

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 150
	MaxBrandLength = 100
)

// Category constants. Category is optional on a product; empty means uncategorised.
const (
	CategoryCleanser    = "cleanser"
	CategoryToner       = "toner"
	CategorySerum       = "serum"
	CategoryMoisturizer = "moisturizer"
	CategorySunscreen   = "sunscreen"
	CategoryMask        = "mask"
	CategoryTreatment   = "treatment"
	CategoryEyeCream    = "eye_cream"
	CategoryOther       = "other"
)

// ValidCategories contains all valid category values.
var ValidCategories = []string{
	CategoryCleanser, CategoryToner, CategorySerum, CategoryMoisturizer,
	CategorySunscreen, CategoryMask, CategoryTreatment, CategoryEyeCream,
	CategoryOther,
}

// Domain errors
var (
	ErrEmptyName       = errors.New("product name cannot be empty")
	ErrInvalidCategory = errors.New("unknown product category")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// Product is a catalog entry. Products are owned by the catalog and referenced
// (not owned) by routine steps and shelf items.
type Product struct {
	ID              string
	Name            string
	Brand           string
	Category        string
	CategoryID      string
	CompanyID       string
	CompanyName     string // joined from company, not persisted on this row
	IngredientsText string
	Barcode         string
	ImageURL        string
	IsPrivate       bool
	Rating          float64 // 0 means unrated
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks if the Product has valid data.
// PRE: Product struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > MaxNameLength {
		return errors.New("product name cannot exceed 150 characters")
	}
	if len(p.Brand) > MaxBrandLength {
		return errors.New("product brand cannot exceed 100 characters")
	}
	if p.Category != "" && !isValidCategory(p.Category) {
		return ErrInvalidCategory
	}
	if p.Rating != 0 && (p.Rating < 1 || p.Rating > 5) {
		return ErrInvalidRating
	}
	return nil
}

// BrandDisplay returns the brand shown on product cards: the joined company
// name when the product is linked to a company, the free-text brand otherwise.
// INVARIANT: Product state is not mutated
func (p *Product) BrandDisplay() string {
	if p.CompanyName != "" {
		return p.CompanyName
	}
	return p.Brand
}

func isValidCategory(c string) bool {
	for _, v := range ValidCategories {
		if c == v {
			return true
		}
	}
	return false
}
