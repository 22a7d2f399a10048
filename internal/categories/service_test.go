package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/catalogo-io/catalog-admin/pkg/db"
	"github.com/catalogo-io/catalog-admin/pkg/db/models"
	pkgerrors "github.com/catalogo-io/catalog-admin/pkg/errors"
)

func setupCategoriesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:categories_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{`
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  slug TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category_id TEXT NOT NULL REFERENCES categories (id),
  price NUMERIC NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range stmts {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupCategoriesTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn))
	require.NoError(t, err)
	return svc, conn
}

func TestCreateCategoryDerivesSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "  Fresh Produce & Dairy  "})
	require.NoError(t, err)
	require.Equal(t, "Fresh Produce & Dairy", dto.Name)
	require.Equal(t, "fresh-produce-and-dairy", dto.Slug)
	require.NotEqual(t, uuid.Nil, dto.ID)
}

func TestCreateCategoryRejectsEmptyName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "   "})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Beverages"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "Beverages"})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestUpdateCategoryKeepsSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Snacks"})
	require.NoError(t, err)

	newName := "Snacks & Sweets"
	updated, err := svc.UpdateCategory(ctx, created.ID, UpdateCategoryInput{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, "Snacks & Sweets", updated.Name)
	require.Equal(t, "snacks", updated.Slug, "slug is derived on first save only")
}

func TestDeleteCategoryGuard(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Frozen"})
	require.NoError(t, err)

	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Ice Cream",
		CategoryID: created.ID,
		Price:      decimal.NewFromFloat(4.50),
		IsActive:   true,
	}
	require.NoError(t, conn.Create(product).Error)

	err = svc.DeleteCategory(ctx, created.ID)
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeReferentialConflict))

	// category must remain
	got, err := svc.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	// removing the product unblocks deletion
	require.NoError(t, conn.Delete(&models.Product{}, "id = ?", product.ID).Error)
	require.NoError(t, svc.DeleteCategory(ctx, created.ID))

	_, err = svc.GetCategory(ctx, created.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteCategoryNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.DeleteCategory(context.Background(), uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestListCategoriesOrderedByName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Pantry", "Bakery", "Deli"} {
		_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: name})
		require.NoError(t, err)
	}

	dtos, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, dtos, 3)
	require.Equal(t, "Bakery", dtos[0].Name)
	require.Equal(t, "Deli", dtos[1].Name)
	require.Equal(t, "Pantry", dtos[2].Name)
}
