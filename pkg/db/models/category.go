package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. The slug is derived from the name on first save
// and never changes afterwards, so stored URLs stay stable across renames.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null;uniqueIndex"`
	Slug      string    `gorm:"column:slug;type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
