package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/catalogo-io/catalog-admin/pkg/db"
	"github.com/catalogo-io/catalog-admin/pkg/db/models"
	"github.com/catalogo-io/catalog-admin/pkg/enums"
	pkgerrors "github.com/catalogo-io/catalog-admin/pkg/errors"
)

// positionConstraint names the unique (product_id, position) constraint.
// Postgres defers it, so violations can also surface at commit time.
const positionConstraint = "product_media_product_id_position_key"

// ClassifyPositionCollision wraps a raw unique violation on the position
// constraint as a POSITION_COLLISION error. Commit-time violations leave
// the transaction helper unclassified, so retry loops run their result
// through this before deciding whether to retry.
func ClassifyPositionCollision(err error) error {
	if err == nil || pkgerrors.As(err) != nil {
		return err
	}
	if db.IsUniqueViolation(err, positionConstraint) {
		return pkgerrors.Wrap(pkgerrors.CodePositionCollision, err, "allocate media positions")
	}
	return err
}

// Service exposes media attachment and ordering operations.
type Service interface {
	AttachFiles(ctx context.Context, productID uuid.UUID, files []FileInput) ([]MediaDTO, error)
	NormalizePositions(ctx context.Context, productID uuid.UUID) (int, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]MediaDTO, error)
}

type service struct {
	repo      *Repository
	dbClient  *db.Client
	validator *Validator
}

// NewService constructs a media service backed by the provided repository.
// A nil validator applies the default upload ceiling.
func NewService(repo *Repository, dbClient *db.Client, validator *Validator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if validator == nil {
		validator = defaultValidator
	}
	return &service{repo: repo, dbClient: dbClient, validator: validator}, nil
}

// MediaDTO captures product media metadata returned to clients.
type MediaDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	FileRef   string          `json:"file_ref"`
	MediaType enums.MediaType `json:"media_type"`
	Position  int             `json:"position"`
	CreatedAt time.Time       `json:"created_at"`
}

// AttachFiles validates the batch and appends it to the product's media in
// upload order, retrying once if a concurrent attacher wins the positions.
func (s *service) AttachFiles(ctx context.Context, productID uuid.UUID, files []FileInput) ([]MediaDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one file is required")
	}

	types, err := s.validator.ValidateBatch(files)
	if err != nil {
		return nil, err
	}

	attach := func() error {
		return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			if _, err := txRepo.LockProduct(ctx, productID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock product")
			}
			return AttachTx(ctx, txRepo, productID, files, types)
		})
	}

	if err := ClassifyPositionCollision(attach()); err != nil {
		if !pkgerrors.HasCode(err, pkgerrors.CodePositionCollision) {
			return nil, err
		}
		// Lost the allocation race; the positions were recomputed once more.
		if err := ClassifyPositionCollision(attach()); err != nil {
			return nil, err
		}
	}

	return s.ListByProduct(ctx, productID)
}

// AttachTx appends validated files inside an existing transaction. Callers
// own validation, locking and the collision retry.
func AttachTx(ctx context.Context, txRepo *Repository, productID uuid.UUID, files []FileInput, types []enums.MediaType) error {
	if len(files) == 0 {
		return nil
	}
	if len(types) != len(files) {
		return pkgerrors.New(pkgerrors.CodeInternal, "file and type counts differ")
	}

	next, err := txRepo.NextPosition(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute next position")
	}

	rows := make([]models.ProductMedia, len(files))
	for i, file := range files {
		rows[i] = models.ProductMedia{
			ProductID: productID,
			FileRef:   fileRef(file),
			MediaType: types[i],
			Position:  next + i,
		}
	}
	if err := txRepo.BulkCreate(ctx, rows); err != nil {
		if db.IsUniqueViolation(err, positionConstraint) {
			return pkgerrors.Wrap(pkgerrors.CodePositionCollision, err, "attach media")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert media rows")
	}
	return nil
}

// NormalizePositions compacts the product's media positions to 1..N.
func (s *service) NormalizePositions(ctx context.Context, productID uuid.UUID) (int, error) {
	if productID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	var changed int
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.LockProduct(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock product")
		}
		n, err := txRepo.Normalize(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "normalize positions")
		}
		changed = n
		return nil
	})
	return changed, err
}

// ListByProduct returns the product's media in display order.
func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]MediaDTO, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product media")
	}
	dtos := make([]MediaDTO, len(rows))
	for i, row := range rows {
		dtos[i] = NewMediaDTO(row)
	}
	return dtos, nil
}

// NewMediaDTO converts a persisted row into the client payload.
func NewMediaDTO(row models.ProductMedia) MediaDTO {
	return MediaDTO{
		ID:        row.ID,
		ProductID: row.ProductID,
		FileRef:   row.FileRef,
		MediaType: row.MediaType,
		Position:  row.Position,
		CreatedAt: row.CreatedAt,
	}
}

func fileRef(file FileInput) string {
	if ref := strings.TrimSpace(file.Ref); ref != "" {
		return ref
	}
	return strings.TrimSpace(file.Name)
}
