package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/catalogo-io/catalog-admin/pkg/enums"
)

// ProductMedia stores ordered media entries for products. Uniqueness of
// (product_id, position) is enforced by a deferred constraint in the
// migration rather than a gorm index tag, so a transaction may pass through
// transient duplicates while positions are being rearranged.
type ProductMedia struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	FileRef   string          `gorm:"column:file_ref;type:text;not null"`
	MediaType enums.MediaType `gorm:"column:media_type;type:text;not null"`
	Position  int             `gorm:"column:position;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
