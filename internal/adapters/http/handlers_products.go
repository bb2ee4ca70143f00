package web

import (
	"database/sql"
	"errors"
	"net/http"

	"glow/internal/adapters/storage/product"
	"glow/internal/application/listutil"
	"glow/internal/application/orchestrators"
	domainProduct "glow/internal/domain/product"
	"glow/internal/domain/routine"
)

// productFilterKeys are the query parameters accepted by the catalog list.
var productFilterKeys = []string{"category", "brand"}

// handleListProducts returns a paginated slice of the public catalog.
// Supports ?q= free-text search plus category and brand filters.
func handleListProducts(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}

	q := r.URL.Query()
	page := listutil.ParsePageParams(q)
	filters := listutil.ParseFilterParams(q, productFilterKeys)

	filter := product.ListFilter{
		Search:   filters.Search,
		Category: filters.Filters["category"],
		Brand:    filters.Filters["brand"],
	}

	total, err := stores.ProductStore.Count(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}

	info := listutil.NewPageInfo(page.Page, page.PerPage, total)
	filter.Limit = info.PerPage
	filter.Offset = info.Offset()

	products, err := stores.ProductStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"products": toProductViews(products),
		"page":     info,
	})
}

// handleGetProduct returns one catalog product. The ingredient list is
// also rendered to HTML so clients can show light formatting.
func handleGetProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}

	p, err := stores.ProductStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			errorJSON(w, http.StatusNotFound, "product not found")
			return
		}
		internalError(w, err)
		return
	}

	view := toProductView(p)
	view.IngredientsHTML = renderMarkdown(p.IngredientsText)
	writeJSON(w, http.StatusOK, view)
}

// handleAddProduct creates a catalog product, optionally attaching it to a
// routine as a step in the same request.
func handleAddProduct(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		Name            string `json:"name"`
		Brand           string `json:"brand"`
		Category        string `json:"category"`
		IngredientsText string `json:"ingredients_text"`
		Barcode         string `json:"barcode"`
		ImageURL        string `json:"image_url"`
		IsPrivate       bool   `json:"is_private"`
		RoutineID       string `json:"routine_id"`
		StepName        string `json:"step_name"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := orchestrators.ExecuteAddProduct(r.Context(), orchestrators.AddProductInput{
		UserID:          sess.AccountID,
		Name:            input.Name,
		Brand:           input.Brand,
		Category:        input.Category,
		IngredientsText: input.IngredientsText,
		Barcode:         input.Barcode,
		ImageURL:        input.ImageURL,
		IsPrivate:       input.IsPrivate,
		RoutineID:       input.RoutineID,
		StepName:        input.StepName,
	}, orchestrators.AddProductDeps{
		ProductStore: stores.ProductStore,
		CompanyStore: stores.CompanyStore,
		RoutineStore: stores.RoutineStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainProduct.ErrEmptyName),
			errors.Is(err, domainProduct.ErrInvalidCategory),
			errors.Is(err, routine.ErrEmptyStepName):
			errorJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, orchestrators.ErrRoutineNotOwned):
			errorJSON(w, http.StatusForbidden, err.Error())
		case errors.Is(err, sql.ErrNoRows):
			errorJSON(w, http.StatusNotFound, "routine not found")
		default:
			internalError(w, err)
		}
		return
	}

	body := map[string]any{"product": toProductView(result.Product)}
	if result.Step != nil {
		body["step"] = toStepView(*result.Step)
	}
	writeJSON(w, http.StatusCreated, body)
}

// handleListCompanies returns every known brand, for autocomplete when a
// user types a product's brand.
func handleListCompanies(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}

	companies, err := stores.CompanyStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	type companyView struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	views := make([]companyView, 0, len(companies))
	for _, c := range companies {
		views = append(views, companyView{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": views})
}

// handleListCategories returns the fixed category vocabulary, persisted so
// admin tooling can extend it later.
func handleListCategories(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}

	categories, err := stores.CategoryStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	type categoryView struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	views := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, categoryView{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": views})
}
