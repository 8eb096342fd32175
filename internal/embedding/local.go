package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// LocalEmbedder is a deterministic, offline embedding provider built on
// token feature hashing. It has no network failure mode, which makes it
// suitable for air-gapped deployments and for tests. Vectors are
// L2-normalized so cosine similarity behaves the same as with the remote
// provider.
type LocalEmbedder struct {
	dimension int
}

// NewLocalEmbedder creates a local feature-hashing embedder with the given
// output dimension.
func NewLocalEmbedder(dimension int) *LocalEmbedder {
	return &LocalEmbedder{dimension: dimension}
}

// Dimension returns the configured output dimension.
func (e *LocalEmbedder) Dimension() int {
	return e.dimension
}

// Embed maps text to a fixed-dimension vector by hashing lowercased word
// unigrams and bigrams into buckets. Identical text always yields an
// identical vector.
func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no tokens in text")
	}

	vector := make([]float32, e.dimension)
	for i, token := range tokens {
		e.addFeature(vector, token)
		if i+1 < len(tokens) {
			e.addFeature(vector, token+" "+tokens[i+1])
		}
	}

	normalize(vector)
	return vector, nil
}

// addFeature hashes a feature into a bucket with a sign bit so that
// colliding features partially cancel instead of always accumulating.
func (e *LocalEmbedder) addFeature(vector []float32, feature string) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := int(sum % uint64(e.dimension))
	if sum&(1<<63) != 0 {
		vector[bucket] -= 1
	} else {
		vector[bucket] += 1
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vector {
		vector[i] /= norm
	}
}
