package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"glow/internal/domain/company"
	"glow/internal/domain/product"
	"glow/internal/domain/routine"
)

// ProductStoreForCreate defines the product store interface needed by AddProduct.
type ProductStoreForCreate interface {
	Save(ctx context.Context, p product.Product) error
	Delete(ctx context.Context, id string) error
}

// CompanyStoreForCreate defines the company store interface needed by AddProduct.
type CompanyStoreForCreate interface {
	EnsureByName(ctx context.Context, c company.Company) (company.Company, error)
}

// AddProductInput carries input for the orchestrator. When RoutineID is set
// the new product is also attached to that routine as a step.
type AddProductInput struct {
	UserID          string
	Name            string
	Brand           string
	Category        string
	IngredientsText string
	Barcode         string
	ImageURL        string
	IsPrivate       bool
	RoutineID       string
	StepName        string // defaults to the product name
}

// AddProductDeps holds dependencies for AddProduct.
type AddProductDeps struct {
	ProductStore ProductStoreForCreate
	CompanyStore CompanyStoreForCreate
	RoutineStore RoutineStoreForOrchestrator
	GenerateID   func() string
	Now          func() time.Time
}

// AddProductResult carries the created product and, when attached, the new step.
type AddProductResult struct {
	Product product.Product
	Step    *routine.Step
}

// ExecuteAddProduct creates a catalog product, linking it to a company row
// that is created on first use of the brand name. When a routine is given,
// the product is attached as a step; if that attach fails the product is
// deleted again so no orphaned catalog entry is left behind.
// PRE: Name is non-empty; Category is empty or valid
// POST: Product exists with a company link, and a step references it when requested
func ExecuteAddProduct(ctx context.Context, input AddProductInput, deps AddProductDeps) (AddProductResult, error) {
	if strings.TrimSpace(input.Name) == "" {
		return AddProductResult{}, product.ErrEmptyName
	}

	now := deps.Now()
	p := product.Product{
		ID:              deps.GenerateID(),
		Name:            strings.TrimSpace(input.Name),
		Brand:           strings.TrimSpace(input.Brand),
		Category:        input.Category,
		IngredientsText: input.IngredientsText,
		Barcode:         input.Barcode,
		ImageURL:        input.ImageURL,
		IsPrivate:       input.IsPrivate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Link the brand to its company row, creating it on first use
	if p.Brand != "" && deps.CompanyStore != nil {
		c := company.Company{
			ID:        deps.GenerateID(),
			Name:      company.NormalizeName(p.Brand),
			CreatedAt: now,
		}
		if err := c.Validate(); err == nil {
			ensured, err := deps.CompanyStore.EnsureByName(ctx, c)
			if err != nil {
				return AddProductResult{}, err
			}
			p.CompanyID = ensured.ID
			p.CompanyName = ensured.Name
		}
	}

	if err := p.Validate(); err != nil {
		return AddProductResult{}, err
	}
	if err := deps.ProductStore.Save(ctx, p); err != nil {
		return AddProductResult{}, err
	}

	result := AddProductResult{Product: p}

	if input.RoutineID != "" {
		stepName := input.StepName
		if stepName == "" {
			stepName = p.Name
		}
		step, err := ExecuteAddStep(ctx, AddStepInput{
			UserID:    input.UserID,
			RoutineID: input.RoutineID,
			Name:      stepName,
			ProductID: p.ID,
		}, StepDeps{
			RoutineStore: deps.RoutineStore,
			GenerateID:   deps.GenerateID,
			Now:          deps.Now,
		})
		if err != nil {
			// Compensate: remove the product so the two writes succeed or
			// fail together from the client's point of view
			if delErr := deps.ProductStore.Delete(ctx, p.ID); delErr != nil {
				slog.Error("add_product_compensation_failed", "product_id", p.ID, "error", delErr)
			}
			return AddProductResult{}, fmt.Errorf("attach product to routine: %w", err)
		}
		result.Step = &step
	}

	slog.Info("product_added", "product_id", p.ID, "brand", p.Brand, "attached", result.Step != nil)
	return result, nil
}
