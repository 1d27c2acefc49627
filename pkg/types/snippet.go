package types

// Snippet contains context around a match.
type Snippet struct {
	Before   []byte `json:"before"`   // bytes before the match
	Matching []byte `json:"matching"` // the matched content
	After    []byte `json:"after"`    // bytes after the match
}
