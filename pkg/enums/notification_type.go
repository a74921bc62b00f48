package enums

import "fmt"

// NotificationType buckets inbox messages by the workflow that produced them.
type NotificationType string

const (
	NotificationTypeApproval     NotificationType = "approval"
	NotificationTypeViewing      NotificationType = "viewing"
	NotificationTypePhotoJob     NotificationType = "photo_job"
	NotificationTypeMessage      NotificationType = "message"
	NotificationTypeAnnouncement NotificationType = "announcement"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeApproval,
	NotificationTypeViewing,
	NotificationTypePhotoJob,
	NotificationTypeMessage,
	NotificationTypeAnnouncement,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
