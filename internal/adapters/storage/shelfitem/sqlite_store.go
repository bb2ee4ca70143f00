package shelfitem

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"glow/internal/adapters/storage"
	productdomain "glow/internal/domain/product"
	domain "glow/internal/domain/shelfitem"
)

// shelfColumns joins each shelf row with its catalog product and the
// product's company so shelf screens render without follow-up reads.
const shelfColumns = `
	up.id, up.user_id, up.product_id, up.status,
	up.date_opened, up.expiration_date, up.rating, up.review,
	up.created_at, up.updated_at,
	p.id, p.name, p.brand, p.category, p.image_url, COALESCE(c.name, '')`

const shelfJoin = `
	FROM user_product up
	JOIN product p ON p.id = up.product_id
	LEFT JOIN company c ON c.id = p.company_id`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ShelfItemStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a ShelfItem by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.ShelfItem, error) {
	row := s.db.QueryRowContext(ctx, "SELECT"+shelfColumns+shelfJoin+" WHERE up.id = ?", id)
	return scanShelfItem(row.Scan)
}

// GetByUserAndProduct retrieves the shelf row linking a user to a product.
// The unique (user_id, product_id) constraint guarantees at most one.
// POST: Returns the entity or an error if the user has no row for the product
func (s *SQLiteStore) GetByUserAndProduct(ctx context.Context, userID, productID string) (domain.ShelfItem, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT"+shelfColumns+shelfJoin+" WHERE up.user_id = ? AND up.product_id = ?",
		userID, productID)
	return scanShelfItem(row.Scan)
}

// ListByUser retrieves a user's shelf, most recently touched first.
// An empty status returns every partition.
// POST: Returns matching entities; empty slice when none exist
func (s *SQLiteStore) ListByUser(ctx context.Context, userID, status string) ([]domain.ShelfItem, error) {
	query := "SELECT" + shelfColumns + shelfJoin + " WHERE up.user_id = ?"
	args := []any{userID}
	if status != "" {
		query += " AND up.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY up.updated_at DESC, up.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.ShelfItem{}
	for rows.Next() {
		entity, err := scanShelfItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a ShelfItem to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.ShelfItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_product (
			id, user_id, product_id, status, date_opened, expiration_date,
			rating, review, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status,
			date_opened=excluded.date_opened,
			expiration_date=excluded.expiration_date,
			rating=excluded.rating,
			review=excluded.review,
			updated_at=excluded.updated_at
	`,
		entity.ID,
		entity.UserID,
		entity.ProductID,
		entity.Status,
		nullable(entity.DateOpened),
		nullable(entity.ExpirationDate),
		entity.Rating,
		entity.Review,
		entity.CreatedAt.UTC().Format(time.RFC3339),
		entity.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save shelf item: %w", err)
	}
	return nil
}

// Delete removes a ShelfItem from the database.
// PRE: id is non-empty
// POST: Entity is removed; no error if it did not exist
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM user_product WHERE id = ?", id)
	return err
}

func scanShelfItem(scan func(dest ...any) error) (domain.ShelfItem, error) {
	var entity domain.ShelfItem
	var joined productdomain.Product
	var dateOpened, expiration, review sql.NullString
	var rating sql.NullFloat64
	var createdAt, updatedAt string
	var pBrand, pCategory, pImageURL sql.NullString
	err := scan(
		&entity.ID, &entity.UserID, &entity.ProductID, &entity.Status,
		&dateOpened, &expiration, &rating, &review,
		&createdAt, &updatedAt,
		&joined.ID, &joined.Name, &pBrand, &pCategory, &pImageURL, &joined.CompanyName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ShelfItem{}, fmt.Errorf("shelf item not found: %w", err)
		}
		return domain.ShelfItem{}, err
	}
	entity.DateOpened = dateOpened.String
	entity.ExpirationDate = expiration.String
	entity.Rating = rating.Float64
	entity.Review = review.String
	joined.Brand = pBrand.String
	joined.Category = pCategory.String
	joined.ImageURL = pImageURL.String
	entity.Product = &joined
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
