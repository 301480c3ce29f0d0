package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeCustodyRequested   NotificationType = "custody_requested"
	NotificationTypeRequestApproved    NotificationType = "request_approved"
	NotificationTypeRequestRejected    NotificationType = "request_rejected"
	NotificationTypeRequestCancelled   NotificationType = "request_cancelled"
	NotificationTypeDocumentPickedUp   NotificationType = "document_checked_out"
	NotificationTypeDocumentReturned   NotificationType = "document_returned"
	NotificationTypeReturnOverdue      NotificationType = "return_overdue"
	NotificationTypeSystemAnnouncement NotificationType = "system_announcement"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeCustodyRequested,
	NotificationTypeRequestApproved,
	NotificationTypeRequestRejected,
	NotificationTypeRequestCancelled,
	NotificationTypeDocumentPickedUp,
	NotificationTypeDocumentReturned,
	NotificationTypeReturnOverdue,
	NotificationTypeSystemAnnouncement,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
