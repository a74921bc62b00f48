package enums

import "fmt"

// PhotoJobStatus is the linear dispatch lifecycle for photography jobs:
// open -> assigned -> scheduled -> completed, with open -> rejected as the
// only alternate branch.
type PhotoJobStatus string

const (
	PhotoJobStatusOpen      PhotoJobStatus = "open"
	PhotoJobStatusAssigned  PhotoJobStatus = "assigned"
	PhotoJobStatusScheduled PhotoJobStatus = "scheduled"
	PhotoJobStatusRejected  PhotoJobStatus = "rejected"
	PhotoJobStatusCompleted PhotoJobStatus = "completed"
)

var validPhotoJobStatuses = []PhotoJobStatus{
	PhotoJobStatusOpen,
	PhotoJobStatusAssigned,
	PhotoJobStatusScheduled,
	PhotoJobStatusRejected,
	PhotoJobStatusCompleted,
}

// String implements fmt.Stringer.
func (p PhotoJobStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PhotoJobStatus.
func (p PhotoJobStatus) IsValid() bool {
	for _, candidate := range validPhotoJobStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePhotoJobStatus converts raw input into a PhotoJobStatus.
func ParsePhotoJobStatus(value string) (PhotoJobStatus, error) {
	for _, candidate := range validPhotoJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid photo job status %q", value)
}
