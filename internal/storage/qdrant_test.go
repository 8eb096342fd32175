//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 8

// setupTestStorage creates a test storage instance over a unique collection
// and ensures it exists. Skips the test if Qdrant is not running.
func setupTestStorage(t *testing.T) *QdrantStorage {
	collection := "invoice_rag_test_" + uuid.New().String()
	storage, err := NewQdrantStorage("localhost", 6334, collection, testDimension)
	if err != nil {
		t.Skipf("Qdrant not available: %v", err)
	}

	err = storage.EnsureCollection(context.Background())
	require.NoError(t, err, "Failed to ensure collection")

	t.Cleanup(func() {
		storage.client.DeleteCollection(context.Background(), collection)
		storage.Close()
	})
	return storage
}

func testVector(fill float32) []float32 {
	vector := make([]float32, testDimension)
	for i := range vector {
		vector[i] = fill
	}
	return vector
}

func testPoint(fill float32, payload Payload) *Point {
	return &Point{
		ID:      uuid.New().String(),
		Vector:  testVector(fill),
		Payload: payload,
	}
}

func TestEnsureCollection_Idempotent(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	// Repeated calls must not fail or reset the collection.
	require.NoError(t, storage.EnsureCollection(ctx))
	require.NoError(t, storage.EnsureCollection(ctx))

	info, err := storage.GetCollectionInfo(ctx)
	require.NoError(t, err)
	assert.Zero(t, info.PointsCount)
}

func TestUpsertAndSearchRoundTrip(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	point := testPoint(0.1, Payload{
		Text:       "Total due: $42",
		SourceFile: "invoice.pdf",
		FileHash:   "deadbeef",
	})
	require.NoError(t, storage.UpsertPoints(ctx, []*Point{point}))

	// Upsert waits for visibility, so the point is searchable immediately.
	hits, err := storage.Search(ctx, testVector(0.1), 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, point.ID, hits[0].ID)
	assert.Equal(t, point.Payload, hits[0].Payload)
	assert.Greater(t, hits[0].Score, float32(0.99), "identical vector scores ~1 under cosine")
}

func TestUpsertPoints_EmptyBatchIsNoOp(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.UpsertPoints(ctx, nil))

	info, err := storage.GetCollectionInfo(ctx)
	require.NoError(t, err)
	assert.Zero(t, info.PointsCount)
}

func TestUpsertPoints_DimensionMismatchRejected(t *testing.T) {
	storage := setupTestStorage(t)

	bad := &Point{
		ID:     uuid.New().String(),
		Vector: make([]float32, testDimension+1),
	}
	err := storage.UpsertPoints(context.Background(), []*Point{bad})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSearch_EmptyCollection(t *testing.T) {
	storage := setupTestStorage(t)

	hits, err := storage.Search(context.Background(), testVector(0.5), 3)
	require.NoError(t, err, "zero matches is a valid, non-error outcome")
	assert.Empty(t, hits)
}

func TestSearch_DimensionMismatchRejected(t *testing.T) {
	storage := setupTestStorage(t)

	_, err := storage.Search(context.Background(), make([]float32, testDimension-1), 3)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestHasPayloadValue_ExistenceCheck(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	found, err := storage.HasPayloadValue(ctx, FieldFileHash, "cafebabe")
	require.NoError(t, err)
	assert.False(t, found)

	point := testPoint(0.2, Payload{Text: "chunk", SourceFile: "a.pdf", FileHash: "cafebabe"})
	require.NoError(t, storage.UpsertPoints(ctx, []*Point{point}))

	found, err = storage.HasPayloadValue(ctx, FieldFileHash, "cafebabe")
	require.NoError(t, err)
	assert.True(t, found)

	// Exact match only.
	found, err = storage.HasPayloadValue(ctx, FieldFileHash, "cafebab")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSearch_TopKOrdering(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	points := []*Point{
		testPoint(0.9, Payload{Text: "close", SourceFile: "a.pdf", FileHash: "h1"}),
		testPoint(-0.9, Payload{Text: "far", SourceFile: "b.pdf", FileHash: "h2"}),
		testPoint(0.5, Payload{Text: "also close", SourceFile: "c.pdf", FileHash: "h3"}),
	}
	require.NoError(t, storage.UpsertPoints(ctx, points))

	hits, err := storage.Search(ctx, testVector(1.0), 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score, "ordered by similarity")
	for _, h := range hits {
		assert.NotEqual(t, "far", h.Payload.Text)
	}
}
