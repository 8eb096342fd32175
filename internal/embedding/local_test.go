package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalEmbedder_Deterministic(t *testing.T) {
	embedder := NewLocalEmbedder(768)
	ctx := context.Background()

	first, err := embedder.Embed(ctx, "Total amount due: $1,240.00")
	require.NoError(t, err)
	second, err := embedder.Embed(ctx, "Total amount due: $1,240.00")
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical text must embed identically")
}

func TestLocalEmbedder_DimensionContract(t *testing.T) {
	for _, dim := range []int{64, 768, 1536} {
		embedder := NewLocalEmbedder(dim)
		assert.Equal(t, dim, embedder.Dimension())

		vector, err := embedder.Embed(context.Background(), "invoice text")
		require.NoError(t, err)
		assert.Len(t, vector, dim)
	}
}

func TestLocalEmbedder_Normalized(t *testing.T) {
	embedder := NewLocalEmbedder(256)

	vector, err := embedder.Embed(context.Background(), "Invoice 17 net total 99 euro due in thirty days")
	require.NoError(t, err)

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5, "vector should be L2-normalized")
}

func TestLocalEmbedder_DistinctTextsDiffer(t *testing.T) {
	embedder := NewLocalEmbedder(768)
	ctx := context.Background()

	a, err := embedder.Embed(ctx, "shipping costs for order 12")
	require.NoError(t, err)
	b, err := embedder.Embed(ctx, "value added tax summary 2024")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLocalEmbedder_EmptyTextFails(t *testing.T) {
	embedder := NewLocalEmbedder(768)

	_, err := embedder.Embed(context.Background(), "   \n\t ")
	assert.Error(t, err, "text without tokens has no embedding")
}

func TestLocalEmbedder_CancelledContext(t *testing.T) {
	embedder := NewLocalEmbedder(768)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := embedder.Embed(ctx, "invoice")
	assert.ErrorIs(t, err, context.Canceled)
}
