package custody

import (
	"time"

	"github.com/google/uuid"

	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
	"github.com/handharbeni/notaryflow-backend/pkg/enums"
	"github.com/handharbeni/notaryflow-backend/pkg/pagination"
)

// Actor identifies who is driving a workflow operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// RequestCustodyInput captures a new custody request. RequesterID may
// differ from the actor only when the actor holds a privileged role.
type RequestCustodyInput struct {
	DocumentID  uuid.UUID
	RequesterID uuid.UUID
	Actor       Actor
	Notes       *string
}

// RequestCustodyResult returns the created request and refreshed projection.
type RequestCustodyResult struct {
	Request  *models.CustodyRequest `json:"request"`
	Document *models.Document       `json:"document"`
}

// TransitionInput drives one state machine step on an existing request.
type TransitionInput struct {
	RequestID          uuid.UUID
	Target             enums.RequestStatus
	Actor              Actor
	Location           *string
	ExpectedReturnDate *time.Time
	Notes              *string
}

// ListRequestsParams filters the request list read path. Non-privileged
// actors only ever see their own requests, whatever filter they pass.
type ListRequestsParams struct {
	Actor       Actor
	Statuses    []enums.RequestStatus
	RequesterID *uuid.UUID
	DocumentID  *uuid.UUID
	Page        pagination.Params
}

// ListRequestsResult wraps the rows with the page summary.
type ListRequestsResult struct {
	Items []models.CustodyRequest `json:"items"`
	Page  pagination.Page         `json:"pagination"`
}
