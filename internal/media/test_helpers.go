package media

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/catalogo-io/catalog-admin/pkg/db/models"
	"github.com/catalogo-io/catalog-admin/pkg/enums"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB) *models.Product {
	t.Helper()
	category := &models.Category{
		ID:   uuid.New(),
		Name: "Category " + uuid.NewString(),
		Slug: "category-" + uuid.NewString(),
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Test Product",
		CategoryID: category.ID,
		Price:      decimal.NewFromFloat(19.99),
		IsActive:   true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateMediaRow(t *testing.T, tx *gorm.DB, productID uuid.UUID, position int) *models.ProductMedia {
	t.Helper()
	row := &models.ProductMedia{
		ID:        uuid.New(),
		ProductID: productID,
		FileRef:   "media/" + uuid.NewString() + ".jpg",
		MediaType: enums.MediaTypeImage,
		Position:  position,
	}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("create product media: %v", err)
	}
	return row
}
