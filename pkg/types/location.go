package types

import "fmt"

// OffsetSpan is a byte range within a blob.
type OffsetSpan struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Validate checks offset ordering: 0 <= Start <= End.
func (s OffsetSpan) Validate() error {
	if s.Start < 0 || s.End < s.Start {
		return fmt.Errorf("invalid byte range [%d, %d]", s.Start, s.End)
	}
	return nil
}

// SourcePoint is a line/column position within a blob.
type SourcePoint struct {
	Line   int64 `json:"line"`
	Column int64 `json:"column"`
}

// SourceSpan is a line/column range within a blob.
type SourceSpan struct {
	Start SourcePoint `json:"start"`
	End   SourcePoint `json:"end"`
}

// Validate checks line/column ordering: 0 <= start line <= end line,
// columns non-negative.
func (s SourceSpan) Validate() error {
	if s.Start.Line < 0 || s.End.Line < s.Start.Line {
		return fmt.Errorf("invalid line range [%d, %d]", s.Start.Line, s.End.Line)
	}
	if s.Start.Column < 0 || s.End.Column < 0 {
		return fmt.Errorf("invalid columns [%d, %d]", s.Start.Column, s.End.Column)
	}
	return nil
}

// Location maps a byte range to its line/column span.
type Location struct {
	Offset OffsetSpan `json:"offset"`
	Source SourceSpan `json:"source"`
}

// Validate checks both the offset and source components.
func (l Location) Validate() error {
	if err := l.Offset.Validate(); err != nil {
		return err
	}
	return l.Source.Validate()
}
