package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boterrors "hr-intake-bot/internal/common/errors"
	"hr-intake-bot/internal/models"
)

func makeCatalog(ids ...int64) []models.Department {
	out := make([]models.Department, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Department{ID: id, Title: "dept"})
	}
	return out
}

func pageIDs(p Page) []int64 {
	ids := make([]int64, 0, len(p.Entries))
	for _, e := range p.Entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestWindow_Forward(t *testing.T) {
	entries := makeCatalog(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	page, err := Window(entries, Forward(4, 3))
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6}, pageIDs(page))
	assert.False(t, page.IsFirst)
	assert.False(t, page.IsLast)
}

func TestWindow_Backward_AscendingOrder(t *testing.T) {
	entries := makeCatalog(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	page, err := Window(entries, Backward(3, 3))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, pageIDs(page))
	assert.True(t, page.IsFirst)
	assert.False(t, page.IsLast)
}

func TestWindow_Boundaries(t *testing.T) {
	entries := makeCatalog(1, 2, 3, 4, 5)

	first, err := Window(entries, Forward(1, 3))
	require.NoError(t, err)
	assert.True(t, first.IsFirst)
	assert.False(t, first.IsLast)

	last, err := Window(entries, Forward(4, 3))
	require.NoError(t, err)
	assert.False(t, last.IsFirst)
	assert.True(t, last.IsLast)

	whole, err := Window(entries, Forward(1, 10))
	require.NoError(t, err)
	assert.True(t, whole.IsFirst)
	assert.True(t, whole.IsLast)
}

func TestWindow_SparseIDs(t *testing.T) {
	// Deleted entries leave holes; paging works on whatever remains.
	entries := makeCatalog(2, 5, 9, 14)

	page, err := Window(entries, Forward(3, 2))
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 9}, pageIDs(page))

	page, err = Window(entries, Backward(8, 2))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, pageIDs(page))
}

func TestWindow_EmptyCatalog(t *testing.T) {
	_, err := Window(nil, Forward(1, 3))
	assert.True(t, errors.Is(err, boterrors.ErrCatalogEmpty))
}

func TestWindow_StaleCursorFallsBackToFirstPage(t *testing.T) {
	// Cursor points past everything that still exists.
	entries := makeCatalog(1, 2, 3)

	page, err := Window(entries, Forward(50, 2))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, pageIDs(page))
	assert.True(t, page.IsFirst)
}

func TestWindow_RejectsAmbiguousRequest(t *testing.T) {
	entries := makeCatalog(1, 2, 3)

	start, end := int64(1), int64(3)
	_, err := Window(entries, WindowRequest{Start: &start, End: &end, Limit: 3})
	assert.Error(t, err)

	_, err = Window(entries, WindowRequest{Limit: 3})
	assert.Error(t, err)
}
