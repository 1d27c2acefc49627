package types

import (
	"encoding/json"
	"fmt"
)

// CanonicalizeProvenance validates that raw is a JSON object and returns its
// canonical encoding: minified, with object keys sorted (json.Marshal of a
// map sorts keys). Textual variants of the same object therefore deduplicate
// to a single provenance record.
func CanonicalizeProvenance(raw json.RawMessage) (json.RawMessage, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("provenance is not a JSON object: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("provenance is not a JSON object: got null")
	}

	canonical, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("re-encoding provenance: %w", err)
	}
	return canonical, nil
}

// FileProvenance builds a provenance record for a plain filesystem file.
func FileProvenance(path string) json.RawMessage {
	rec, _ := json.Marshal(map[string]interface{}{
		"kind": "file",
		"path": path,
	})
	return rec
}

// GitProvenance builds a provenance record for a blob found in a git
// repository. commitID may be empty when commit tracking is disabled.
func GitProvenance(repoPath, blobPath, commitID string) json.RawMessage {
	fields := map[string]interface{}{
		"kind":      "git",
		"repo_path": repoPath,
		"blob_path": blobPath,
	}
	if commitID != "" {
		fields["commit"] = commitID
	}
	rec, _ := json.Marshal(fields)
	return rec
}
