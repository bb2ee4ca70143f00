package product_test

import (
	"testing"

	"glow/internal/domain/product"
)

// TestProduct_Validate tests validation of Product.
func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       product.Product
		wantErr bool
	}{
		{
			name:    "valid minimal",
			p:       product.Product{ID: "1", Name: "Gentle Cleanser"},
			wantErr: false,
		},
		{
			name:    "valid with category",
			p:       product.Product{ID: "2", Name: "Vitamin C Serum", Category: product.CategorySerum},
			wantErr: false,
		},
		{
			name:    "empty name",
			p:       product.Product{ID: "3", Name: ""},
			wantErr: true,
		},
		{
			name:    "whitespace name",
			p:       product.Product{ID: "4", Name: "   "},
			wantErr: true,
		},
		{
			name:    "unknown category",
			p:       product.Product{ID: "5", Name: "Mystery Cream", Category: "balm"},
			wantErr: true,
		},
		{
			name:    "rating out of range",
			p:       product.Product{ID: "6", Name: "Toner", Rating: 6},
			wantErr: true,
		},
		{
			name:    "rating in range",
			p:       product.Product{ID: "7", Name: "Toner", Rating: 4.5},
			wantErr: false,
		},
		{
			name:    "unrated",
			p:       product.Product{ID: "8", Name: "Toner", Rating: 0},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Product.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestProduct_BrandDisplay verifies company name wins over free-text brand.
func TestProduct_BrandDisplay(t *testing.T) {
	p := product.Product{Name: "Cream", Brand: "typed brand", CompanyName: "CeraVe"}
	if got := p.BrandDisplay(); got != "CeraVe" {
		t.Errorf("BrandDisplay() = %q, want %q", got, "CeraVe")
	}

	p.CompanyName = ""
	if got := p.BrandDisplay(); got != "typed brand" {
		t.Errorf("BrandDisplay() = %q, want %q", got, "typed brand")
	}

	p.Brand = ""
	if got := p.BrandDisplay(); got != "" {
		t.Errorf("BrandDisplay() = %q, want empty", got)
	}
}
