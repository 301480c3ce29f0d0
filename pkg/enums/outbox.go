package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateCustodyRequest OutboxAggregateType = "custody_request"
	AggregateDocument       OutboxAggregateType = "document"
	AggregateNotification   OutboxAggregateType = "notification"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateCustodyRequest,
	AggregateDocument,
	AggregateNotification,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventCustodyRequested       OutboxEventType = "custody_requested"
	EventCustodyRequestApproved OutboxEventType = "custody_request_approved"
	EventCustodyRequestRejected OutboxEventType = "custody_request_rejected"
	EventCustodyRequestCanceled OutboxEventType = "custody_request_canceled"
	EventDocumentCheckedOut     OutboxEventType = "document_checked_out"
	EventDocumentReturned       OutboxEventType = "document_returned"
	EventNotificationRequested  OutboxEventType = "notification_requested"
)

var validOutboxEventTypes = []OutboxEventType{
	EventCustodyRequested,
	EventCustodyRequestApproved,
	EventCustodyRequestRejected,
	EventCustodyRequestCanceled,
	EventDocumentCheckedOut,
	EventDocumentReturned,
	EventNotificationRequested,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
