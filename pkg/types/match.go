package types

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// ComputeMatchStructuralID computes the content-based match identity:
// SHA-1(rule_structural_id + '\0' + blob_id_hex + '\0' + start + '\0' + end).
// Offsets are rendered in decimal and the blob ID in lowercase hex, so the
// digest is reproducible byte-for-byte by any implementation.
func ComputeMatchStructuralID(ruleStructuralID string, blobID BlobID, span OffsetSpan) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d", ruleStructuralID, blobID.Hex(), span.Start, span.End)
	return hex.EncodeToString(h.Sum(nil))
}
