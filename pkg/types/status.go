package types

import "fmt"

// Status is a triage label assigned to a match by a reviewer.
type Status string

const (
	StatusAccept Status = "accept"
	StatusReject Status = "reject"
)

// ParseStatus converts a string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAccept, StatusReject:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unrecognized status %q (want accept or reject)", s)
	}
}

// String implements Stringer.
func (s Status) String() string {
	return string(s)
}
