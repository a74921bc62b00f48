package enums

import "fmt"

// ViewingRequestStatus is the one-way request lifecycle: a pending request
// becomes accepted when a viewing is scheduled from it.
type ViewingRequestStatus string

const (
	ViewingRequestStatusPending  ViewingRequestStatus = "pending"
	ViewingRequestStatusAccepted ViewingRequestStatus = "accepted"
)

var validViewingRequestStatuses = []ViewingRequestStatus{
	ViewingRequestStatusPending,
	ViewingRequestStatusAccepted,
}

// String implements fmt.Stringer.
func (v ViewingRequestStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ViewingRequestStatus.
func (v ViewingRequestStatus) IsValid() bool {
	for _, candidate := range validViewingRequestStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseViewingRequestStatus converts raw input into a ViewingRequestStatus.
func ParseViewingRequestStatus(value string) (ViewingRequestStatus, error) {
	for _, candidate := range validViewingRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid viewing request status %q", value)
}
