package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/handharbeni/notaryflow-backend/pkg/enums"
)

// CustodyRequestedEvent signals a new custody request awaiting approval.
type CustodyRequestedEvent struct {
	RequestID   uuid.UUID `json:"requestId"`
	DocumentID  uuid.UUID `json:"documentId"`
	RequesterID uuid.UUID `json:"requesterId"`
	RequestedAt time.Time `json:"requestedAt"`
}

// RequestDecisionEvent is emitted when a handler approves or rejects a request.
type RequestDecisionEvent struct {
	RequestID     uuid.UUID           `json:"requestId"`
	DocumentID    uuid.UUID           `json:"documentId"`
	RequesterID   uuid.UUID           `json:"requesterId"`
	HandlerUserID uuid.UUID           `json:"handlerUserId"`
	Status        enums.RequestStatus `json:"status"`
	Notes         string              `json:"notes,omitempty"`
}

// RequestCanceledEvent is emitted when a requester withdraws before pickup.
type RequestCanceledEvent struct {
	RequestID   uuid.UUID `json:"requestId"`
	DocumentID  uuid.UUID `json:"documentId"`
	RequesterID uuid.UUID `json:"requesterId"`
	CanceledAt  time.Time `json:"canceledAt"`
}

// DocumentCheckedOutEvent records custody leaving the office.
type DocumentCheckedOutEvent struct {
	RequestID          uuid.UUID  `json:"requestId"`
	DocumentID         uuid.UUID  `json:"documentId"`
	HolderUserID       uuid.UUID  `json:"holderUserId"`
	Location           string     `json:"location"`
	PickedUpAt         time.Time  `json:"pickedUpAt"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
}

// DocumentReturnedEvent records custody coming back into the office.
type DocumentReturnedEvent struct {
	RequestID  uuid.UUID `json:"requestId"`
	DocumentID uuid.UUID `json:"documentId"`
	Location   string    `json:"location"`
	ReturnedAt time.Time `json:"returnedAt"`
}

// NotificationRequestedEvent tells downstream systems to alert a user.
type NotificationRequestedEvent struct {
	UserID     uuid.UUID              `json:"userId"`
	DocumentID uuid.UUID              `json:"documentId"`
	RequestID  uuid.UUID              `json:"requestId"`
	Type       enums.NotificationType `json:"type"`
}
