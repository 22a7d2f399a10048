package media

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMediaTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:media_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  slug TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category_id TEXT NOT NULL REFERENCES categories (id),
  price NUMERIC NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	productMedia := `
CREATE TABLE IF NOT EXISTS product_media (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products (id),
  file_ref TEXT NOT NULL,
  media_type TEXT NOT NULL,
  position INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, stmt := range []string{categories, products, productMedia} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// mustCreatePositionIndex mirrors the production unique constraint on
// (product_id, position). The base schema leaves it off so tests can seed
// the duplicate positions normalization has to repair.
func mustCreatePositionIndex(t *testing.T, db *gorm.DB) {
	t.Helper()
	stmt := `
CREATE UNIQUE INDEX IF NOT EXISTS product_media_product_id_position_key
  ON product_media (product_id, position);`
	require.NoError(t, db.Exec(stmt).Error)
}
