package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/catalogo-io/catalog-admin/internal/media"
	"github.com/catalogo-io/catalog-admin/pkg/db"
	"github.com/catalogo-io/catalog-admin/pkg/db/models"
	pkgerrors "github.com/catalogo-io/catalog-admin/pkg/errors"
	"github.com/catalogo-io/catalog-admin/pkg/pagination"
)

// maxPrice is the largest value numeric(10,2) can hold.
var maxPrice = decimal.RequireFromString("99999999.99")

// Service exposes product management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, categoryID *uuid.UUID, params pagination.Params) (*ProductPage, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	CategoryID  uuid.UUID
	Price       decimal.Decimal
	IsActive    bool
	NewFiles    []media.FileInput
}

// UpdateProductInput holds optional mutation values plus media changes.
type UpdateProductInput struct {
	Name        *string
	Description *string
	CategoryID  *uuid.UUID
	Price       *decimal.Decimal
	IsActive    *bool
	NewFiles    []media.FileInput
	MediaEdits  []MediaEdit
}

// MediaEdit moves or removes one existing media row. Delete wins when both
// fields are set.
type MediaEdit struct {
	MediaID  uuid.UUID
	Position *int
	Delete   bool
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type service struct {
	repo       *Repository
	mediaRepo  *media.Repository
	categories categoryLoader
	dbClient   *db.Client
	validator  *media.Validator
}

// NewService constructs a product service instance. A nil validator applies
// the default upload ceiling.
func NewService(repo *Repository, mediaRepo *media.Repository, categories categoryLoader, dbClient *db.Client, validator *media.Validator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if mediaRepo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category loader required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if validator == nil {
		validator = media.NewValidator(0)
	}
	return &service{
		repo:       repo,
		mediaRepo:  mediaRepo,
		categories: categories,
		dbClient:   dbClient,
		validator:  validator,
	}, nil
}

// CreateProduct persists the product and its initial media in one
// transaction. Any failure rolls back everything, including the files.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	types, err := s.validator.ValidateBatch(input.NewFiles)
	if err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	write := func() error {
		return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			txMedia := s.mediaRepo.WithTx(tx)

			product := &models.Product{
				Name:        name,
				Description: input.Description,
				CategoryID:  input.CategoryID,
				Price:       input.Price,
				IsActive:    input.IsActive,
			}
			created, err := txRepo.Create(ctx, product)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
			}
			createdID = created.ID

			if err := media.AttachTx(ctx, txMedia, created.ID, input.NewFiles, types); err != nil {
				return err
			}
			if _, err := txMedia.Normalize(ctx, created.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "normalize media positions")
			}
			return nil
		})
	}

	if err := s.runWithCollisionRetry(write); err != nil {
		return nil, err
	}
	return s.loadDetail(ctx, createdID)
}

// UpdateProduct applies field changes, media edits/deletes and new file
// attachments atomically, then normalizes positions before commit.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	types, err := s.validator.ValidateBatch(input.NewFiles)
	if err != nil {
		return nil, err
	}
	if err := validateEditBatch(input.MediaEdits); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	write := func() error {
		return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			txMedia := s.mediaRepo.WithTx(tx)

			if _, err := txMedia.LockProduct(ctx, product.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock product")
			}

			applyUpdateToProduct(product, input)
			if _, err := txRepo.Update(ctx, product); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
			}

			if err := applyMediaEdits(ctx, txMedia, product.ID, input.MediaEdits); err != nil {
				return err
			}
			if err := media.AttachTx(ctx, txMedia, product.ID, input.NewFiles, types); err != nil {
				return err
			}
			if _, err := txMedia.Normalize(ctx, product.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "normalize media positions")
			}
			return nil
		})
	}

	if err := s.runWithCollisionRetry(write); err != nil {
		return nil, err
	}
	return s.loadDetail(ctx, product.ID)
}

// DeleteProduct removes a product; media rows follow via FK cascade.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	return s.loadDetail(ctx, productID)
}

func (s *service) ListProducts(ctx context.Context, categoryID *uuid.UUID, params pagination.Params) (*ProductPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, categoryID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := &ProductPage{Items: []ProductDTO{}}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	for i := range rows {
		page.Items = append(page.Items, *NewProductDTO(&rows[i]))
	}
	return page, nil
}

// runWithCollisionRetry retries write once when a concurrent attacher wins
// the position allocation. The deferred constraint reports such collisions
// at commit time as raw driver errors, so each attempt is classified first.
func (s *service) runWithCollisionRetry(write func() error) error {
	if err := media.ClassifyPositionCollision(write()); err != nil {
		if !pkgerrors.HasCode(err, pkgerrors.CodePositionCollision) {
			return err
		}
		return media.ClassifyPositionCollision(write())
	}
	return nil
}

func (s *service) loadDetail(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(product), nil
}

func (s *service) ensureCategory(ctx context.Context, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if price.Exponent() < -2 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price allows at most two decimal places")
	}
	if price.GreaterThan(maxPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price exceeds the allowed maximum")
	}
	return nil
}

// validateEditBatch checks the edit/delete batch structurally before any
// write happens: duplicates, non-positive targets and no-op entries all
// reject the whole batch.
func validateEditBatch(edits []MediaEdit) error {
	seen := make(map[uuid.UUID]struct{}, len(edits))
	details := make(map[string]string)
	for i, edit := range edits {
		label := edit.MediaID.String()
		switch {
		case edit.MediaID == uuid.Nil:
			details[fmt.Sprintf("edit[%d]", i)] = "media_id is required"
		case !edit.Delete && edit.Position == nil:
			details[label] = "either position or delete must be set"
		case !edit.Delete && *edit.Position < 1:
			details[label] = "position must be >= 1"
		}
		if _, dup := seen[edit.MediaID]; dup && edit.MediaID != uuid.Nil {
			details[label] = "duplicate media_id in batch"
		}
		seen[edit.MediaID] = struct{}{}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeMediaBatch,
			fmt.Sprintf("%d invalid edit(s)", len(details))).
			WithDetails(details)
	}
	return nil
}

// applyMediaEdits moves and deletes existing rows. Referencing media that
// does not belong to the product fails the whole batch.
func applyMediaEdits(ctx context.Context, txMedia *media.Repository, productID uuid.UUID, edits []MediaEdit) error {
	if len(edits) == 0 {
		return nil
	}

	rows, err := txMedia.ListByProduct(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product media")
	}
	owned := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		owned[row.ID] = struct{}{}
	}

	var toDelete []uuid.UUID
	for _, edit := range edits {
		if _, ok := owned[edit.MediaID]; !ok {
			return pkgerrors.New(pkgerrors.CodeMediaBatch,
				fmt.Sprintf("media %s does not belong to this product", edit.MediaID)).
				WithDetails(map[string]string{edit.MediaID.String(): "unknown media for product"})
		}
		if edit.Delete {
			toDelete = append(toDelete, edit.MediaID)
			continue
		}
		if err := txMedia.UpdatePosition(ctx, edit.MediaID, *edit.Position); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "move media")
		}
	}
	if err := txMedia.DeleteByIDs(ctx, productID, toDelete); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media")
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}
