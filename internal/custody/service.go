package custody

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handharbeni/notaryflow-backend/internal/documents"
	"github.com/handharbeni/notaryflow-backend/internal/ledger"
	"github.com/handharbeni/notaryflow-backend/internal/notifications"
	"github.com/handharbeni/notaryflow-backend/internal/requests"
	"github.com/handharbeni/notaryflow-backend/internal/users"
	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
	"github.com/handharbeni/notaryflow-backend/pkg/enums"
	pkgerrors "github.com/handharbeni/notaryflow-backend/pkg/errors"
	"github.com/handharbeni/notaryflow-backend/pkg/metrics"
	"github.com/handharbeni/notaryflow-backend/pkg/outbox"
	"github.com/handharbeni/notaryflow-backend/pkg/outbox/payloads"
	"github.com/handharbeni/notaryflow-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service is the custody workflow engine. All custody state, the
// document projection, the ledger and notifications change only through
// it, inside a single transaction per operation.
type Service interface {
	RequestCustody(ctx context.Context, input RequestCustodyInput) (*RequestCustodyResult, error)
	TransitionRequest(ctx context.Context, input TransitionInput) (*models.CustodyRequest, error)
	ListRequests(ctx context.Context, params ListRequestsParams) (*ListRequestsResult, error)
	GetCustody(ctx context.Context, documentID uuid.UUID) (*models.Document, error)
	GetLocationHistory(ctx context.Context, documentID uuid.UUID) ([]models.CustodyLogEntry, error)
}

type service struct {
	documents       documents.Repository
	requests        requests.Repository
	ledger          ledger.Repository
	notifier        notifications.Emitter
	directory       users.Directory
	tx              txRunner
	outbox          outboxPublisher
	metrics         *metrics.CustodyMetrics
	defaultLoanDays int
	now             func() time.Time
}

// Config carries the workflow engine dependencies.
type Config struct {
	Documents       documents.Repository
	Requests        requests.Repository
	Ledger          ledger.Repository
	Notifier        notifications.Emitter
	Directory       users.Directory
	Tx              txRunner
	Outbox          outboxPublisher
	Metrics         *metrics.CustodyMetrics
	DefaultLoanDays int
	Now             func() time.Time
}

// NewService builds the workflow engine with the required dependencies.
func NewService(cfg Config) (Service, error) {
	if cfg.Documents == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if cfg.Requests == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if cfg.Notifier == nil {
		return nil, fmt.Errorf("notification emitter required")
	}
	if cfg.Directory == nil {
		return nil, fmt.Errorf("user directory required")
	}
	if cfg.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cfg.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	loanDays := cfg.DefaultLoanDays
	if loanDays <= 0 {
		loanDays = 14
	}
	return &service{
		documents:       cfg.Documents,
		requests:        cfg.Requests,
		ledger:          cfg.Ledger,
		notifier:        cfg.Notifier,
		directory:       cfg.Directory,
		tx:              cfg.Tx,
		outbox:          cfg.Outbox,
		metrics:         cfg.Metrics,
		defaultLoanDays: loanDays,
		now:             now,
	}, nil
}

func (s *service) RequestCustody(ctx context.Context, input RequestCustodyInput) (*RequestCustodyResult, error) {
	if input.DocumentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	requesterID := input.RequesterID
	if requesterID == uuid.Nil {
		requesterID = input.Actor.UserID
	}
	if requesterID != input.Actor.UserID && !input.Actor.Role.IsPrivileged() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot request custody for another user")
	}

	var result RequestCustodyResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		docRepo := s.documents.WithTx(tx)

		document, err := docRepo.FindByIDForUpdate(ctx, input.DocumentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
		}
		if document == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		if document.IsRequested {
			return pkgerrors.New(pkgerrors.CodeAlreadyRequested, "document already has an active custody request").
				WithDetails(map[string]any{"activeRequestId": document.ActiveRequestID})
		}

		now := s.now()
		request := &models.CustodyRequest{
			DocumentID:       document.ID,
			RequesterID:      requesterID,
			RequestTimestamp: now,
			Status:           enums.RequestStatusPendingApproval,
			Notes:            input.Notes,
		}
		if err := s.requests.WithTx(tx).Create(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create custody request")
		}

		if err := docRepo.UpdateCustody(ctx, document.ID, map[string]any{
			"is_requested":        true,
			"active_requester_id": requesterID,
			"requested_at":        now,
			"active_request_id":   request.ID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document projection")
		}

		requesterName, err := s.directory.DisplayName(ctx, requesterID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve requester name")
		}
		reason := fmt.Sprintf("Custody requested by %s", requesterName)
		if requesterID != input.Actor.UserID {
			actorName, err := s.directory.DisplayName(ctx, input.Actor.UserID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve actor name")
			}
			reason = fmt.Sprintf("Custody requested by %s on behalf of %s", actorName, requesterName)
		}

		// Context entry recording where the document was when the
		// request landed. Custody itself has not moved yet.
		entry := &models.CustodyLogEntry{
			DocumentID:   document.ID,
			Location:     document.CurrentLocation,
			HolderUserID: document.CurrentHolderID,
			ActorUserID:  input.Actor.UserID,
			ChangeReason: reason,
		}
		if err := s.ledger.WithTx(tx).Append(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ledger entry")
		}

		if err := s.notifyRequested(ctx, tx, document, request, requesterID, requesterName, input.Actor.UserID); err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventCustodyRequested,
			AggregateType: enums.AggregateCustodyRequest,
			AggregateID:   request.ID,
			Version:       1,
			Actor:         buildActor(input.Actor),
			Data: payloads.CustodyRequestedEvent{
				RequestID:   request.ID,
				DocumentID:  document.ID,
				RequesterID: requesterID,
				RequestedAt: now,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue custody event")
		}

		document.IsRequested = true
		document.ActiveRequesterID = &requesterID
		document.RequestedAt = &now
		document.ActiveRequestID = &request.ID
		result.Request = request
		result.Document = document
		return nil
	})
	s.metrics.IncOperation("request_custody", err)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) TransitionRequest(ctx context.Context, input TransitionInput) (*models.CustodyRequest, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid target status %q", input.Target))
	}

	var updated *models.CustodyRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		reqRepo := s.requests.WithTx(tx)

		request, err := reqRepo.FindByIDForUpdate(ctx, input.RequestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load custody request")
		}
		if request == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "custody request not found")
		}
		if err := checkTransition(request.Status, input.Target); err != nil {
			return err
		}
		if err := s.authorizeTransition(request, input); err != nil {
			return err
		}

		docRepo := s.documents.WithTx(tx)
		document, err := docRepo.FindByIDForUpdate(ctx, request.DocumentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
		}
		if document == nil {
			return pkgerrors.New(pkgerrors.CodeDependency, "document missing for request")
		}

		switch input.Target {
		case enums.RequestStatusApprovedPendingPickup:
			err = s.approve(ctx, tx, request, document, input)
		case enums.RequestStatusRejected:
			err = s.reject(ctx, tx, request, document, input)
		case enums.RequestStatusCancelled:
			err = s.cancel(ctx, tx, request, document, input)
		case enums.RequestStatusCheckedOut:
			err = s.checkout(ctx, tx, request, document, input)
		case enums.RequestStatusReturned:
			err = s.finishReturn(ctx, tx, request, document, input)
		default:
			err = pkgerrors.New(pkgerrors.CodeBadTransition, fmt.Sprintf("unsupported target status %s", input.Target))
		}
		if err != nil {
			return err
		}
		updated = request
		return nil
	})
	s.metrics.IncOperation("transition_request", err)
	s.metrics.IncTransition(string(input.Target), err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// authorizeTransition enforces who may drive each edge: handlers need a
// privileged role, cancellation additionally allows the requester.
func (s *service) authorizeTransition(request *models.CustodyRequest, input TransitionInput) error {
	if input.Target == enums.RequestStatusCancelled {
		if input.Actor.UserID == request.RequesterID || input.Actor.Role.IsPrivileged() {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the requester may cancel")
	}
	if !input.Actor.Role.IsPrivileged() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "handler role required")
	}
	return nil
}

func (s *service) approve(ctx context.Context, tx *gorm.DB, request *models.CustodyRequest, document *models.Document, input TransitionInput) error {
	now := s.now()
	expectedReturn := input.ExpectedReturnDate
	if expectedReturn == nil {
		due := now.AddDate(0, 0, s.defaultLoanDays)
		expectedReturn = &due
	}

	updates := map[string]any{
		"status":               enums.RequestStatusApprovedPendingPickup,
		"handler_user_id":      input.Actor.UserID,
		"handled_timestamp":    now,
		"expected_return_date": *expectedReturn,
	}
	if err := s.requests.WithTx(tx).Update(ctx, request.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update custody request")
	}
	request.Status = enums.RequestStatusApprovedPendingPickup
	request.HandlerUserID = &input.Actor.UserID
	request.HandledTimestamp = &now
	request.ExpectedReturnDate = expectedReturn

	if err := s.notifier.Emit(ctx, tx, notifications.EmitInput{
		UserID:            request.RequesterID,
		Type:              enums.NotificationTypeRequestApproved,
		Title:             "Custody request approved",
		Message:           fmt.Sprintf("Your request for %q was approved. The document is ready for pickup.", document.Title),
		RelatedDocumentID: &document.ID,
		RelatedRequestID:  &request.ID,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit notification")
	}

	return s.emitDecision(ctx, tx, enums.EventCustodyRequestApproved, request, input)
}

func (s *service) reject(ctx context.Context, tx *gorm.DB, request *models.CustodyRequest, document *models.Document, input TransitionInput) error {
	now := s.now()
	notes := "Request rejected"
	if input.Notes != nil && strings.TrimSpace(*input.Notes) != "" {
		notes = *input.Notes
	}

	updates := map[string]any{
		"status":            enums.RequestStatusRejected,
		"handler_user_id":   input.Actor.UserID,
		"handled_timestamp": now,
		"notes":             notes,
	}
	if err := s.requests.WithTx(tx).Update(ctx, request.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update custody request")
	}
	request.Status = enums.RequestStatusRejected
	request.HandlerUserID = &input.Actor.UserID
	request.HandledTimestamp = &now
	request.Notes = &notes

	if err := s.clearProjection(ctx, tx, document); err != nil {
		return err
	}

	if err := s.notifier.Emit(ctx, tx, notifications.EmitInput{
		UserID:            request.RequesterID,
		Type:              enums.NotificationTypeRequestRejected,
		Title:             "Custody request rejected",
		Message:           fmt.Sprintf("Your request for %q was rejected: %s", document.Title, notes),
		RelatedDocumentID: &document.ID,
		RelatedRequestID:  &request.ID,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit notification")
	}

	return s.emitDecision(ctx, tx, enums.EventCustodyRequestRejected, request, input)
}

func (s *service) cancel(ctx context.Context, tx *gorm.DB, request *models.CustodyRequest, document *models.Document, input TransitionInput) error {
	now := s.now()
	updates := map[string]any{
		"status":            enums.RequestStatusCancelled,
		"handled_timestamp": now,
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
		request.Notes = input.Notes
	}
	if err := s.requests.WithTx(tx).Update(ctx, request.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update custody request")
	}
	request.Status = enums.RequestStatusCancelled
	request.HandledTimestamp = &now

	if err := s.clearProjection(ctx, tx, document); err != nil {
		return err
	}

	if err := s.notifier.Emit(ctx, tx, notifications.EmitInput{
		UserID:            request.RequesterID,
		Type:              enums.NotificationTypeRequestCancelled,
		Title:             "Custody request cancelled",
		Message:           fmt.Sprintf("The request for %q was cancelled.", document.Title),
		RelatedDocumentID: &document.ID,
		RelatedRequestID:  &request.ID,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit notification")
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventCustodyRequestCanceled,
		AggregateType: enums.AggregateCustodyRequest,
		AggregateID:   request.ID,
		Version:       1,
		Actor:         buildActor(input.Actor),
		Data: payloads.RequestCanceledEvent{
			RequestID:   request.ID,
			DocumentID:  request.DocumentID,
			RequesterID: request.RequesterID,
			CanceledAt:  now,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue custody event")
	}
	return nil
}

func (s *service) checkout(ctx context.Context, tx *gorm.DB, request *models.CustodyRequest, document *models.Document, input TransitionInput) error {
	now := s.now()

	requesterName, err := s.directory.DisplayName(ctx, request.RequesterID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve requester name")
	}
	location := fmt.Sprintf("In possession of %s", requesterName)
	if input.Location != nil && strings.TrimSpace(*input.Location) != "" {
		location = strings.TrimSpace(*input.Location)
	}

	if err := s.requests.WithTx(tx).Update(ctx, request.ID, map[string]any{
		"status":           enums.RequestStatusCheckedOut,
		"pickup_timestamp": now,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update custody request")
	}
	request.Status = enums.RequestStatusCheckedOut
	request.PickupTimestamp = &now

	if err := s.documents.WithTx(tx).UpdateCustody(ctx, document.ID, map[string]any{
		"current_holder_id": request.RequesterID,
		"current_location":  location,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document custody")
	}
	document.CurrentHolderID = &request.RequesterID
	document.CurrentLocation = location

	entry := &models.CustodyLogEntry{
		DocumentID:   document.ID,
		Location:     location,
		HolderUserID: &request.RequesterID,
		ActorUserID:  input.Actor.UserID,
		ChangeReason: fmt.Sprintf("Checked out to %s", requesterName),
	}
	if err := s.ledger.WithTx(tx).Append(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ledger entry")
	}

	if err := s.notifier.Emit(ctx, tx, notifications.EmitInput{
		UserID:            request.RequesterID,
		Type:              enums.NotificationTypeDocumentPickedUp,
		Title:             "Document checked out",
		Message:           fmt.Sprintf("%q is now in your custody.", document.Title),
		RelatedDocumentID: &document.ID,
		RelatedRequestID:  &request.ID,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit notification")
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventDocumentCheckedOut,
		AggregateType: enums.AggregateDocument,
		AggregateID:   document.ID,
		Version:       1,
		Actor:         buildActor(input.Actor),
		Data: payloads.DocumentCheckedOutEvent{
			RequestID:          request.ID,
			DocumentID:         document.ID,
			HolderUserID:       request.RequesterID,
			Location:           location,
			PickedUpAt:         now,
			ExpectedReturnDate: request.ExpectedReturnDate,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue custody event")
	}
	return nil
}

func (s *service) finishReturn(ctx context.Context, tx *gorm.DB, request *models.CustodyRequest, document *models.Document, input TransitionInput) error {
	if input.Location == nil || strings.TrimSpace(*input.Location) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "return location required")
	}
	location := strings.TrimSpace(*input.Location)
	now := s.now()

	if err := s.requests.WithTx(tx).Update(ctx, request.ID, map[string]any{
		"status":                  enums.RequestStatusReturned,
		"actual_return_timestamp": now,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update custody request")
	}
	request.Status = enums.RequestStatusReturned
	request.ActualReturnTimestamp = &now

	// The handler accepting the return becomes holder-of-record.
	if err := s.documents.WithTx(tx).UpdateCustody(ctx, document.ID, map[string]any{
		"current_holder_id":   input.Actor.UserID,
		"current_location":    location,
		"is_requested":        false,
		"active_requester_id": nil,
		"requested_at":        nil,
		"active_request_id":   nil,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document custody")
	}
	document.CurrentHolderID = &input.Actor.UserID
	document.CurrentLocation = location
	document.IsRequested = false
	document.ActiveRequesterID = nil
	document.RequestedAt = nil
	document.ActiveRequestID = nil

	entry := &models.CustodyLogEntry{
		DocumentID:   document.ID,
		Location:     location,
		HolderUserID: &input.Actor.UserID,
		ActorUserID:  input.Actor.UserID,
		ChangeReason: "Returned to office",
	}
	if err := s.ledger.WithTx(tx).Append(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ledger entry")
	}

	if err := s.notifier.Emit(ctx, tx, notifications.EmitInput{
		UserID:            request.RequesterID,
		Type:              enums.NotificationTypeDocumentReturned,
		Title:             "Document returned",
		Message:           fmt.Sprintf("%q has been returned to %s.", document.Title, location),
		RelatedDocumentID: &document.ID,
		RelatedRequestID:  &request.ID,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit notification")
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventDocumentReturned,
		AggregateType: enums.AggregateDocument,
		AggregateID:   document.ID,
		Version:       1,
		Actor:         buildActor(input.Actor),
		Data: payloads.DocumentReturnedEvent{
			RequestID:  request.ID,
			DocumentID: document.ID,
			Location:   location,
			ReturnedAt: now,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue custody event")
	}
	return nil
}

// clearProjection resets the active-request flags after a terminal
// outcome so the document is requestable again.
func (s *service) clearProjection(ctx context.Context, tx *gorm.DB, document *models.Document) error {
	if err := s.documents.WithTx(tx).UpdateCustody(ctx, document.ID, map[string]any{
		"is_requested":        false,
		"active_requester_id": nil,
		"requested_at":        nil,
		"active_request_id":   nil,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document projection")
	}
	document.IsRequested = false
	document.ActiveRequesterID = nil
	document.RequestedAt = nil
	document.ActiveRequestID = nil
	return nil
}

func (s *service) notifyRequested(ctx context.Context, tx *gorm.DB, document *models.Document, request *models.CustodyRequest, requesterID uuid.UUID, requesterName string, actorID uuid.UUID) error {
	handlers, err := s.directory.PrivilegedUsers(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list handlers")
	}
	for _, handler := range handlers {
		if handler.ID == requesterID {
			continue
		}
		if err := s.notifier.Emit(ctx, tx, notifications.EmitInput{
			UserID:            handler.ID,
			Type:              enums.NotificationTypeCustodyRequested,
			Title:             "Custody request pending",
			Message:           fmt.Sprintf("%s requested custody of %q.", requesterName, document.Title),
			RelatedDocumentID: &document.ID,
			RelatedRequestID:  &request.ID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit notification")
		}
	}
	// On-behalf requests also tell the requester a request now exists in
	// their name.
	if actorID != requesterID {
		if err := s.notifier.Emit(ctx, tx, notifications.EmitInput{
			UserID:            requesterID,
			Type:              enums.NotificationTypeCustodyRequested,
			Title:             "Custody request created for you",
			Message:           fmt.Sprintf("A custody request for %q was created on your behalf.", document.Title),
			RelatedDocumentID: &document.ID,
			RelatedRequestID:  &request.ID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit notification")
		}
	}
	return nil
}

func (s *service) emitDecision(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, request *models.CustodyRequest, input TransitionInput) error {
	notes := ""
	if request.Notes != nil {
		notes = *request.Notes
	}
	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateCustodyRequest,
		AggregateID:   request.ID,
		Version:       1,
		Actor:         buildActor(input.Actor),
		Data: payloads.RequestDecisionEvent{
			RequestID:     request.ID,
			DocumentID:    request.DocumentID,
			RequesterID:   request.RequesterID,
			HandlerUserID: input.Actor.UserID,
			Status:        request.Status,
			Notes:         notes,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue custody event")
	}
	return nil
}

func (s *service) ListRequests(ctx context.Context, params ListRequestsParams) (*ListRequestsResult, error) {
	if params.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	for _, status := range params.Statuses {
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status filter %q", status))
		}
	}

	requesterID := params.RequesterID
	if !params.Actor.Role.IsPrivileged() {
		own := params.Actor.UserID
		requesterID = &own
	}

	rows, total, err := s.requests.List(ctx, requests.ListParams{
		Statuses:    params.Statuses,
		RequesterID: requesterID,
		DocumentID:  params.DocumentID,
		Page:        params.Page,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list custody requests")
	}

	return &ListRequestsResult{
		Items: rows,
		Page:  pagination.Resolve(params.Page, total),
	}, nil
}

func (s *service) GetCustody(ctx context.Context, documentID uuid.UUID) (*models.Document, error) {
	if documentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	document, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
	}
	if document == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
	}
	return document, nil
}

func (s *service) GetLocationHistory(ctx context.Context, documentID uuid.UUID) ([]models.CustodyLogEntry, error) {
	if documentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	exists, err := s.documents.Exists(ctx, documentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check document")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
	}
	entries, err := s.ledger.ListByDocumentID(ctx, documentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location history")
	}
	return entries, nil
}

func buildActor(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID: actor.UserID,
		Role:   string(actor.Role),
	}
}
