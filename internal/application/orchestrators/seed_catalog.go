package orchestrators

import (
	"context"
	"log/slog"
	"time"

	productstore "glow/internal/adapters/storage/product"
	"glow/internal/domain/category"
	"glow/internal/domain/company"
	"glow/internal/domain/product"

	"github.com/google/uuid"
)

// CategoryStoreForSeed defines the store interface needed by SeedCatalog.
type CategoryStoreForSeed interface {
	Save(ctx context.Context, c category.Category) error
	Count(ctx context.Context) (int, error)
}

// ProductStoreForSeed defines the product store interface needed by SeedCatalog.
type ProductStoreForSeed interface {
	Save(ctx context.Context, p product.Product) error
	Count(ctx context.Context, filter productstore.ListFilter) (int, error)
}

// SeedCatalogDeps holds dependencies for SeedCatalog.
type SeedCatalogDeps struct {
	CategoryStore CategoryStoreForSeed
	ProductStore  ProductStoreForSeed
	CompanyStore  CompanyStoreForCreate
	SeedDemoData  bool // demo companies and products, off in production
}

// ExecuteSeedCatalog creates the fixed category list and, outside
// production, a handful of demo products so a fresh install is browsable.
// PRE: Database is migrated
// POST: Categories exist; demo products exist when SeedDemoData and catalog was empty
func ExecuteSeedCatalog(ctx context.Context, deps SeedCatalogDeps) error {
	count, err := deps.CategoryStore.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		now := time.Now()
		for _, name := range product.ValidCategories {
			c := category.Category{
				ID:        uuid.New().String(),
				Name:      name,
				CreatedAt: now,
			}
			if err := deps.CategoryStore.Save(ctx, c); err != nil {
				return err
			}
		}
		slog.Info("seed_event", "event", "categories_seeded", "count", len(product.ValidCategories))
	}

	if !deps.SeedDemoData {
		return nil
	}

	existing, err := deps.ProductStore.Count(ctx, productstore.ListFilter{})
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil // Catalog already populated
	}

	now := time.Now()
	demo := []struct {
		name, brand, category, ingredients string
	}{
		{"Gentle Foaming Cleanser", "CeraVe", product.CategoryCleanser, "Aqua, Glycerin, *Ceramide NP*, Niacinamide"},
		{"Hydrating Toner", "Hada Labo", product.CategoryToner, "Aqua, Butylene Glycol, *Hyaluronic Acid*"},
		{"Niacinamide 10% + Zinc 1%", "The Ordinary", product.CategorySerum, "Aqua, *Niacinamide*, Zinc PCA"},
		{"Moisturizing Cream", "CeraVe", product.CategoryMoisturizer, "Aqua, Glycerin, Cetearyl Alcohol, *Ceramide NP*"},
		{"UV Aqua Rich Watery Essence SPF50+", "Biore", product.CategorySunscreen, "Aqua, Ethylhexyl Methoxycinnamate"},
	}

	for _, d := range demo {
		var companyID, companyName string
		ensured, err := deps.CompanyStore.EnsureByName(ctx, company.Company{
			ID:        uuid.New().String(),
			Name:      d.brand,
			CreatedAt: now,
		})
		if err == nil {
			companyID = ensured.ID
			companyName = ensured.Name
		}
		p := product.Product{
			ID:              uuid.New().String(),
			Name:            d.name,
			Brand:           d.brand,
			Category:        d.category,
			CompanyID:       companyID,
			CompanyName:     companyName,
			IngredientsText: d.ingredients,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := deps.ProductStore.Save(ctx, p); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "demo_catalog_seeded", "products", len(demo))
	return nil
}
