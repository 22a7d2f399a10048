package media

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNextPosition(t *testing.T) {
	db := setupMediaTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := mustCreateTestProduct(t, db)

	next, err := repo.NextPosition(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 1, next, "empty product starts at 1")

	mustCreateMediaRow(t, db, product.ID, 5)
	next, err = repo.NextPosition(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 6, next, "next position is max+1 even with gaps")

	other := mustCreateTestProduct(t, db)
	next, err = repo.NextPosition(ctx, other.ID)
	require.NoError(t, err)
	require.Equal(t, 1, next, "positions are scoped per product")
}

func TestNormalizeCompactsGapsAndDuplicates(t *testing.T) {
	db := setupMediaTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := mustCreateTestProduct(t, db)

	a := mustCreateMediaRow(t, db, product.ID, 4)
	b := mustCreateMediaRow(t, db, product.ID, 9)
	c := mustCreateMediaRow(t, db, product.ID, 9)

	changed, err := repo.Normalize(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 3, changed)

	rows, err := repo.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []int{1, 2, 3}, []int{rows[0].Position, rows[1].Position, rows[2].Position})
	require.Equal(t, a.ID, rows[0].ID)

	// duplicate positions tie-break by id
	first, second := b.ID, c.ID
	if second.String() < first.String() {
		first, second = second, first
	}
	require.Equal(t, first, rows[1].ID)
	require.Equal(t, second, rows[2].ID)
}

func TestNormalizeIsIdempotentAndMinimal(t *testing.T) {
	db := setupMediaTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := mustCreateTestProduct(t, db)

	mustCreateMediaRow(t, db, product.ID, 1)
	mustCreateMediaRow(t, db, product.ID, 2)
	mustCreateMediaRow(t, db, product.ID, 7)

	changed, err := repo.Normalize(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 1, changed, "only the out-of-place row is written")

	changed, err = repo.Normalize(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 0, changed, "second run is a no-op")
}

func TestNormalizeEmptyProduct(t *testing.T) {
	db := setupMediaTestDB(t)
	repo := NewRepository(db)
	product := mustCreateTestProduct(t, db)

	changed, err := repo.Normalize(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, 0, changed)
}

func TestDeleteByIDsScopedToProduct(t *testing.T) {
	db := setupMediaTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	product := mustCreateTestProduct(t, db)
	other := mustCreateTestProduct(t, db)

	mine := mustCreateMediaRow(t, db, product.ID, 1)
	theirs := mustCreateMediaRow(t, db, other.ID, 1)

	require.NoError(t, repo.DeleteByIDs(ctx, product.ID, []uuid.UUID{mine.ID, theirs.ID}))

	rows, err := repo.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Empty(t, rows)

	rows, err = repo.ListByProduct(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1, "other product's media must survive")
}
