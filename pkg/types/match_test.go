package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMatchStructuralID(t *testing.T) {
	ruleSID := "c48570ca70ff7a3b3685e2291876c8f1efa0ee84"
	blobID := ComputeBlobID([]byte("password=123"))
	span := OffsetSpan{Start: 9, End: 12}

	id := ComputeMatchStructuralID(ruleSID, blobID, span)

	// SHA-1 of ruleSID, NUL, blob hex, NUL, "9", NUL, "12"
	assert.Equal(t, "a8642851de9b10ecc0b27a1cd034640fb9da34b3", id)

	// Deterministic
	assert.Equal(t, id, ComputeMatchStructuralID(ruleSID, blobID, span))
}

func TestComputeMatchStructuralID_Distinguishes(t *testing.T) {
	ruleSID := "rule_abc"
	blobID := ComputeBlobID([]byte("content"))
	span := OffsetSpan{Start: 0, End: 7}
	base := ComputeMatchStructuralID(ruleSID, blobID, span)

	assert.NotEqual(t, base, ComputeMatchStructuralID("rule_xyz", blobID, span))
	assert.NotEqual(t, base, ComputeMatchStructuralID(ruleSID, ComputeBlobID([]byte("other")), span))
	assert.NotEqual(t, base, ComputeMatchStructuralID(ruleSID, blobID, OffsetSpan{Start: 1, End: 7}))
	assert.NotEqual(t, base, ComputeMatchStructuralID(ruleSID, blobID, OffsetSpan{Start: 0, End: 6}))
}

func TestComputeMatchStructuralID_DecimalOffsets(t *testing.T) {
	// Offsets render in decimal, so (1, 10) and (11, 0) cannot collide
	// through digit concatenation thanks to the NUL separator.
	ruleSID := "rule_abc"
	blobID := ComputeBlobID([]byte("content"))

	a := ComputeMatchStructuralID(ruleSID, blobID, OffsetSpan{Start: 1, End: 10})
	b := ComputeMatchStructuralID(ruleSID, blobID, OffsetSpan{Start: 11, End: 0})
	assert.NotEqual(t, a, b)
}
