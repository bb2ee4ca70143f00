package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"glow/internal/domain/company"
	"glow/internal/domain/product"
)

// mockProductStore implements ProductStoreForCreate for testing.
type mockProductStore struct {
	products map[string]product.Product
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{products: make(map[string]product.Product)}
}

func (m *mockProductStore) Save(_ context.Context, p product.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockProductStore) Delete(_ context.Context, id string) error {
	delete(m.products, id)
	return nil
}

// mockCompanyStore implements CompanyStoreForCreate with case-insensitive
// get-or-create, matching the real store's NOCASE constraint.
type mockCompanyStore struct {
	companies map[string]company.Company // keyed by lowercased name
}

func newMockCompanyStore() *mockCompanyStore {
	return &mockCompanyStore{companies: make(map[string]company.Company)}
}

func (m *mockCompanyStore) EnsureByName(_ context.Context, c company.Company) (company.Company, error) {
	key := strings.ToLower(c.Name)
	if existing, ok := m.companies[key]; ok {
		return existing, nil
	}
	m.companies[key] = c
	return c, nil
}

// TestExecuteAddProduct_CreatesCompanyOnFirstUse verifies the brand gets a
// company row and the product links to it.
func TestExecuteAddProduct_CreatesCompanyOnFirstUse(t *testing.T) {
	products := newMockProductStore()
	companies := newMockCompanyStore()

	result, err := ExecuteAddProduct(context.Background(), AddProductInput{
		UserID:   "user-1",
		Name:     "Hydrating Serum",
		Brand:    "The Ordinary",
		Category: product.CategorySerum,
	}, AddProductDeps{
		ProductStore: products,
		CompanyStore: companies,
		GenerateID:   seqIDs(),
		Now:          fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Product.CompanyID == "" {
		t.Error("expected product to link to a company")
	}
	if len(companies.companies) != 1 {
		t.Errorf("companies = %d, want 1", len(companies.companies))
	}
}

// TestExecuteAddProduct_ReusesCompanyAcrossCasings verifies "CeraVe" and
// "cerave" converge on one company row.
func TestExecuteAddProduct_ReusesCompanyAcrossCasings(t *testing.T) {
	products := newMockProductStore()
	companies := newMockCompanyStore()
	deps := AddProductDeps{
		ProductStore: products,
		CompanyStore: companies,
		GenerateID:   seqIDs(),
		Now:          fixedNow,
	}

	first, err := ExecuteAddProduct(context.Background(), AddProductInput{
		UserID: "user-1", Name: "Cleanser", Brand: "CeraVe",
	}, deps)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	second, err := ExecuteAddProduct(context.Background(), AddProductInput{
		UserID: "user-1", Name: "Moisturizer", Brand: "cerave",
	}, deps)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if first.Product.CompanyID != second.Product.CompanyID {
		t.Errorf("company IDs differ: %s vs %s", first.Product.CompanyID, second.Product.CompanyID)
	}
	if len(companies.companies) != 1 {
		t.Errorf("companies = %d, want 1", len(companies.companies))
	}
}

// TestExecuteAddProduct_AttachToRoutine verifies the created product is
// appended as a step when a routine is given.
func TestExecuteAddProduct_AttachToRoutine(t *testing.T) {
	products := newMockProductStore()
	routines := newMockRoutineStore()
	r := seedRoutine(routines, "user-1", "11111111-2222-4333-8444-000000000001")

	result, err := ExecuteAddProduct(context.Background(), AddProductInput{
		UserID:    "user-1",
		Name:      "Vitamin C Serum",
		RoutineID: r.ID,
	}, AddProductDeps{
		ProductStore: products,
		CompanyStore: newMockCompanyStore(),
		RoutineStore: routines,
		GenerateID:   seqIDs(),
		Now:          fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Step == nil {
		t.Fatal("expected a step to be created")
	}
	if result.Step.ProductID != result.Product.ID {
		t.Errorf("step product = %s, want %s", result.Step.ProductID, result.Product.ID)
	}
	if result.Step.Name != "Vitamin C Serum" {
		t.Errorf("step name = %q, want product name", result.Step.Name)
	}
}

// TestExecuteAddProduct_CompensatesFailedAttach verifies the product is
// deleted again when the routine attach fails.
func TestExecuteAddProduct_CompensatesFailedAttach(t *testing.T) {
	products := newMockProductStore()
	routines := newMockRoutineStore()
	r := seedRoutine(routines, "user-1", "11111111-2222-4333-8444-000000000001")
	routines.replaceErr = errors.New("disk full")

	_, err := ExecuteAddProduct(context.Background(), AddProductInput{
		UserID:    "user-1",
		Name:      "Vitamin C Serum",
		RoutineID: r.ID,
	}, AddProductDeps{
		ProductStore: products,
		CompanyStore: newMockCompanyStore(),
		RoutineStore: routines,
		GenerateID:   seqIDs(),
		Now:          fixedNow,
	})
	if err == nil {
		t.Fatal("expected error when attach fails")
	}
	if len(products.products) != 0 {
		t.Errorf("products = %d, want 0 (compensation must delete)", len(products.products))
	}
}

// TestExecuteAddProduct_EmptyName verifies a blank name is rejected before
// any write.
func TestExecuteAddProduct_EmptyName(t *testing.T) {
	products := newMockProductStore()
	_, err := ExecuteAddProduct(context.Background(), AddProductInput{
		UserID: "user-1",
		Name:   "   ",
	}, AddProductDeps{
		ProductStore: products,
		GenerateID:   seqIDs(),
		Now:          fixedNow,
	})
	if err != product.ErrEmptyName {
		t.Errorf("err = %v, want ErrEmptyName", err)
	}
	if len(products.products) != 0 {
		t.Error("nothing should be persisted on validation failure")
	}
}
