package searchindex

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_IndexAndSearch(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Index(ctx, 1, []byte(`{"id":1}`), "Tesla Model 3 blue"))
	require.NoError(t, idx.Index(ctx, 2, []byte(`{"id":2}`), "Toyota Corolla blue"))

	result, err := idx.Search(ctx, "tesla", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, []int64{1}, result.IDs)
	assert.Equal(t, `{"id":1}`, string(result.Docs[0]))

	// Both documents carry "blue"
	result, err = idx.Search(ctx, "blue", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.ElementsMatch(t, []int64{1, 2}, result.IDs)
}

func TestMemoryIndex_SearchRequiresAllTokens(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Index(ctx, 1, []byte(`{}`), "Tesla Model 3"))
	require.NoError(t, idx.Index(ctx, 2, []byte(`{}`), "Tesla Roadster"))

	result, err := idx.Search(ctx, "tesla model", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, result.IDs)

	result, err = idx.Search(ctx, "tesla honda", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, result.IDs)
	assert.Equal(t, int64(0), result.Total)
}

func TestMemoryIndex_SearchRanksByFrequency(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Index(ctx, 1, []byte(`{}`), "red"))
	require.NoError(t, idx.Index(ctx, 2, []byte(`{}`), "red red red"))
	require.NoError(t, idx.Index(ctx, 3, []byte(`{}`), "red red"))

	result, err := idx.Search(ctx, "red", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, result.IDs)
}

func TestMemoryIndex_EmptyQueryMatchesNothing(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Index(ctx, 1, []byte(`{}`), "anything at all"))

	for _, query := range []string{"", "   ", "the and of"} {
		result, err := idx.Search(ctx, query, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, result.IDs, "query %q", query)
		assert.Equal(t, int64(0), result.Total)
	}
}

func TestMemoryIndex_ReindexReplacesTokens(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Index(ctx, 1, []byte(`{"v":1}`), "Tesla"))
	require.NoError(t, idx.Index(ctx, 1, []byte(`{"v":2}`), "Toyota"))

	result, err := idx.Search(ctx, "tesla", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, result.IDs)

	result, err = idx.Search(ctx, "toyota", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, result.IDs)
	assert.Equal(t, `{"v":2}`, string(result.Docs[0]))
}

func TestMemoryIndex_Delete(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Index(ctx, 1, []byte(`{}`), "Tesla"))
	require.NoError(t, idx.Delete(ctx, 1))

	result, err := idx.Search(ctx, "tesla", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, result.IDs)

	// Deleting an unknown id is not an error
	require.NoError(t, idx.Delete(ctx, 99))
}

func TestMemoryIndex_Pagination(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, idx.Index(ctx, i, []byte(fmt.Sprintf(`{"id":%d}`, i)), "shared token"))
	}

	// Equal scores break ties on ascending id
	result, err := idx.Search(ctx, "shared", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, []int64{1, 2}, result.IDs)

	result, err = idx.Search(ctx, "shared", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, result.IDs)

	result, err = idx.Search(ctx, "shared", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, result.IDs)

	// Offset beyond the result set
	result, err = idx.Search(ctx, "shared", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, result.IDs)
	assert.Equal(t, int64(5), result.Total)
}

func TestMemoryIndex_Clear(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	require.NoError(t, idx.Index(ctx, 1, []byte(`{}`), "Tesla"))
	require.NoError(t, idx.Clear(ctx))

	result, err := idx.Search(ctx, "tesla", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, result.IDs)
}
