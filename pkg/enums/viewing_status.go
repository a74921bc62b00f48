package enums

import "fmt"

// ViewingStatus is the scheduled-viewing lifecycle. Rescheduling keeps the
// viewing upcoming with a new timestamp; cancellation is terminal.
type ViewingStatus string

const (
	ViewingStatusUpcoming  ViewingStatus = "upcoming"
	ViewingStatusCancelled ViewingStatus = "cancelled"
)

var validViewingStatuses = []ViewingStatus{
	ViewingStatusUpcoming,
	ViewingStatusCancelled,
}

// String implements fmt.Stringer.
func (v ViewingStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ViewingStatus.
func (v ViewingStatus) IsValid() bool {
	for _, candidate := range validViewingStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseViewingStatus converts raw input into a ViewingStatus.
func ParseViewingStatus(value string) (ViewingStatus, error) {
	for _, candidate := range validViewingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid viewing status %q", value)
}
