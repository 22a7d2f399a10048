package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/catalogo-io/catalog-admin/internal/media"
	"github.com/catalogo-io/catalog-admin/pkg/db/models"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	CategoryID  uuid.UUID        `json:"category_id"`
	Category    *CategoryRefDTO  `json:"category,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	IsActive    bool             `json:"is_active"`
	Media       []media.MediaDTO `json:"media"`
	CoverMedia  *media.MediaDTO  `json:"cover_media,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductPage is one cursor-paginated slice of the catalog.
type ProductPage struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CategoryRefDTO surfaces the category reference on product responses.
type CategoryRefDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// NewProductDTO builds a DTO from the persisted model. Media is assumed to
// be preloaded in display order; the cover is the first entry.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		CategoryID:  product.CategoryID,
		Price:       product.Price,
		IsActive:    product.IsActive,
		Media:       make([]media.MediaDTO, len(product.Media)),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Category != nil {
		dto.Category = &CategoryRefDTO{
			ID:   product.Category.ID,
			Name: product.Category.Name,
			Slug: product.Category.Slug,
		}
	}
	for i, row := range product.Media {
		dto.Media[i] = media.NewMediaDTO(row)
	}
	if len(dto.Media) > 0 {
		cover := dto.Media[0]
		dto.CoverMedia = &cover
	}
	return dto
}
