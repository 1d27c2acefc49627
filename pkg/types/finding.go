package types

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
)

// ComputeFindingID computes the content-based finding identity:
// SHA-1(rule_structural_id + '\0' + json(groups)).
//
// Groups serialize as a minified JSON array of standard-base64 strings
// (json.Marshal of [][]byte produces exactly that), so the encoding is
// canonical: element order is significant and there is no whitespace.
func ComputeFindingID(ruleStructuralID string, groups [][]byte) string {
	h := sha1.New()

	h.Write([]byte(ruleStructuralID))
	h.Write([]byte{0})

	groupsJSON, _ := json.Marshal(groupsOrEmpty(groups))
	h.Write(groupsJSON)

	return hex.EncodeToString(h.Sum(nil))
}

// EncodeGroups returns the canonical JSON form of capture groups, the same
// bytes that ComputeFindingID hashes. Nil input encodes as the empty array.
func EncodeGroups(groups [][]byte) string {
	data, _ := json.Marshal(groupsOrEmpty(groups))
	return string(data)
}

// DecodeGroups parses the canonical JSON form back into raw group bytes.
func DecodeGroups(encoded string) ([][]byte, error) {
	var groups [][]byte
	if err := json.Unmarshal([]byte(encoded), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// groupsOrEmpty normalizes nil to an empty slice so that the encoding is
// always a JSON array, never null.
func groupsOrEmpty(groups [][]byte) [][]byte {
	if groups == nil {
		return [][]byte{}
	}
	return groups
}
