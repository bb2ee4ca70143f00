package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"glow/internal/adapters/storage"
	domain "glow/internal/domain/product"
)

// DefaultListLimit caps unbounded catalog queries.
const DefaultListLimit = 50

// productColumns is the select list shared by every read. company_name is
// joined from the company table so cards can show the linked brand.
const productColumns = `
	p.id, p.name, p.brand, p.category, p.category_id, p.company_id,
	COALESCE(c.name, ''), p.ingredients_text, p.barcode, p.image_url,
	p.is_private, p.rating, p.created_at, p.updated_at`

const productJoin = ` FROM product p LEFT JOIN company c ON c.id = p.company_id`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ProductStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Product by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT"+productColumns+productJoin+" WHERE p.id = ?", id)
	return scanProduct(row.Scan)
}

// GetByIDs retrieves the products for the given IDs. Missing IDs are skipped,
// not errors; callers resolving step thumbnails tolerate deleted products.
// POST: Returns zero or more entities in unspecified order
func (s *SQLiteStore) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, "SELECT"+productColumns+productJoin+" WHERE p.id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Save persists a Product to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product (
			id, name, brand, category, category_id, company_id,
			ingredients_text, barcode, image_url, is_private, rating,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			brand=excluded.brand,
			category=excluded.category,
			category_id=excluded.category_id,
			company_id=excluded.company_id,
			ingredients_text=excluded.ingredients_text,
			barcode=excluded.barcode,
			image_url=excluded.image_url,
			is_private=excluded.is_private,
			rating=excluded.rating,
			updated_at=excluded.updated_at
	`,
		entity.ID,
		entity.Name,
		entity.Brand,
		entity.Category,
		nullable(entity.CategoryID),
		nullable(entity.CompanyID),
		entity.IngredientsText,
		entity.Barcode,
		entity.ImageURL,
		entity.IsPrivate,
		entity.Rating,
		entity.CreatedAt.UTC().Format(time.RFC3339),
		entity.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// Delete removes a Product from the database.
// PRE: id is non-empty
// POST: Entity is removed; no error if it did not exist
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM product WHERE id = ?", id)
	return err
}

// List retrieves catalog products matching the filter, newest first.
// Private products never appear in catalog listings.
// POST: Returns up to filter.Limit entities; empty slice when none match
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	where, args := buildFilter(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	args = append(args, limit, filter.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT"+productColumns+productJoin+where+" ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Count returns the number of catalog products matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := buildFilter(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*)"+productJoin+where, args...).Scan(&count)
	return count, err
}

// buildFilter translates a ListFilter into a WHERE clause. Search terms are
// escaped so a literal % or _ in the query cannot widen the match.
func buildFilter(filter ListFilter) (string, []any) {
	clauses := []string{"p.is_private = 0"}
	args := []any{}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		clauses = append(clauses, `(p.name LIKE ? ESCAPE '\' OR p.brand LIKE ? ESCAPE '\' OR c.name LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Category != "" {
		clauses = append(clauses, "p.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Brand != "" {
		pattern := "%" + escapeLike(filter.Brand) + "%"
		clauses = append(clauses, `(p.brand LIKE ? ESCAPE '\' OR c.name LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	results := []domain.Product{}
	for rows.Next() {
		entity, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanProduct(scan func(dest ...any) error) (domain.Product, error) {
	var entity domain.Product
	var brand, category, categoryID, companyID sql.NullString
	var ingredients, barcode, imageURL sql.NullString
	var createdAt, updatedAt string
	err := scan(
		&entity.ID, &entity.Name, &brand, &category, &categoryID, &companyID,
		&entity.CompanyName, &ingredients, &barcode, &imageURL,
		&entity.IsPrivate, &entity.Rating, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Product{}, fmt.Errorf("product not found: %w", err)
		}
		return domain.Product{}, err
	}
	entity.Brand = brand.String
	entity.Category = category.String
	entity.CategoryID = categoryID.String
	entity.CompanyID = companyID.String
	entity.IngredientsText = ingredients.String
	entity.Barcode = barcode.String
	entity.ImageURL = imageURL.String
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		entity.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		entity.UpdatedAt = t
	}
	return entity, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
