package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHash_Length(t *testing.T) {
	assert.Len(t, ContentHash([]byte("pic"), 0), 16)
	assert.Len(t, ContentHash([]byte("pic"), 8), 8)
	assert.Equal(t, ContentHash([]byte("pic"), 0), ContentHash([]byte("pic"), 0))
}

func TestSignature_Stable(t *testing.T) {
	assert.Equal(t, Signature("bytes", "image/*"), Signature("bytes", "image/*"))
	assert.NotEqual(t, Signature("ab", "c"), Signature("a", "bc"))
	assert.NotEqual(t, Signature("json"), Signature("bytes"))
	assert.Len(t, Signature(), 16)
}
