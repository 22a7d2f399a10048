package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/catalogo-io/catalog-admin/pkg/db/models"
)

// Repository exposes product media persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a media repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// LockProduct takes a row lock on the product so concurrent attachers
// serialize before reading the current max position. Row locks are a
// Postgres feature; on other dialects the deferred unique constraint and
// the retry path cover the race.
func (r *Repository) LockProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product models.Product
	if err := q.First(&product, "id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// NextPosition returns max(position)+1 for the product, or 1 when the
// product has no media.
func (r *Repository) NextPosition(ctx context.Context, productID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.ProductMedia{}).
		Where("product_id = ?", productID).
		Select("MAX(position)").
		Scan(&max).
		Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

// ListByProduct returns the product's media in display order.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductMedia, error) {
	var rows []models.ProductMedia
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads a single media row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductMedia, error) {
	var row models.ProductMedia
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// BulkCreate inserts the provided media rows in one statement.
func (r *Repository) BulkCreate(ctx context.Context, rows []models.ProductMedia) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// UpdatePosition writes a single row's position.
func (r *Repository) UpdatePosition(ctx context.Context, id uuid.UUID, position int) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductMedia{}).
		Where("id = ?", id).
		UpdateColumn("position", position).
		Error
}

// DeleteByIDs removes media rows belonging to the product.
func (r *Repository) DeleteByIDs(ctx context.Context, productID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("product_id = ? AND id IN ?", productID, ids).
		Delete(&models.ProductMedia{}).
		Error
}

// Normalize rewrites the product's positions to a dense 1..N sequence in
// (position, id) order, touching only rows whose value actually changes.
// Running it twice in a row is a no-op.
func (r *Repository) Normalize(ctx context.Context, productID uuid.UUID) (int, error) {
	rows, err := r.ListByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	changed := 0
	for idx, row := range rows {
		want := idx + 1
		if row.Position == want {
			continue
		}
		if err := r.UpdatePosition(ctx, row.ID, want); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
