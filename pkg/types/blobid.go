package types

import (
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hexIDLen is the length of a blob ID in its hex form.
const hexIDLen = 2 * sha1.Size

// BlobID identifies blob content by its Git object hash. Two blobs with the
// same bytes share an ID no matter where they were found.
type BlobID [sha1.Size]byte

// ComputeBlobID hashes content the way Git hashes a blob object:
// SHA-1 over "blob <decimal length>", a NUL byte, then the content itself.
func ComputeBlobID(content []byte) BlobID {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)

	var id BlobID
	h.Sum(id[:0])
	return id
}

// Hex returns the 40-character lowercase hex form.
func (id BlobID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id BlobID) String() string {
	return id.Hex()
}

// ParseBlobID decodes a 40-character hex string.
func ParseBlobID(s string) (BlobID, error) {
	var id BlobID
	if len(s) != hexIDLen {
		return id, fmt.Errorf("blob ID must be %d hex characters, got %d", hexIDLen, len(s))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("decoding blob ID: %w", err)
	}
	return id, nil
}

// MarshalJSON encodes the ID as a hex string.
func (id BlobID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

// UnmarshalJSON decodes the ID from a hex string.
func (id *BlobID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseBlobID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value stores the ID as its hex string.
func (id BlobID) Value() (driver.Value, error) {
	return id.Hex(), nil
}

// Scan reads the ID back from a TEXT or BLOB column.
func (id *BlobID) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into BlobID", value)
	}
	parsed, err := ParseBlobID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
