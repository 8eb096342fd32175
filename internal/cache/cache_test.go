package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_NormalizationEquivalence(t *testing.T) {
	assert.Equal(t, Key("Total?"), Key("  TOTAL?  "),
		"case and surrounding whitespace must not change the key")
	assert.Equal(t, Key("what is due"), Key("What is due"))
}

func TestKey_DistinctQueriesDiffer(t *testing.T) {
	assert.NotEqual(t, Key("total for march"), Key("total for april"))
	// Inner whitespace is significant; only surrounding whitespace is trimmed.
	assert.NotEqual(t, Key("total  due"), Key("total due"))
}

func TestKey_IsHexSHA256(t *testing.T) {
	key := Key("How much is invoice 7?")
	assert.Len(t, key, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", key)
}
