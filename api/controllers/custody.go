package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/handharbeni/notaryflow-backend/api/middleware"
	"github.com/handharbeni/notaryflow-backend/api/responses"
	"github.com/handharbeni/notaryflow-backend/api/validators"
	"github.com/handharbeni/notaryflow-backend/internal/custody"
	"github.com/handharbeni/notaryflow-backend/pkg/enums"
	pkgerrors "github.com/handharbeni/notaryflow-backend/pkg/errors"
	"github.com/handharbeni/notaryflow-backend/pkg/logger"
	"github.com/handharbeni/notaryflow-backend/pkg/pagination"
)

func actorFromContext(r *http.Request) (custody.Actor, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return custody.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return custody.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return custody.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown role")
	}
	return custody.Actor{UserID: uid, Role: role}, nil
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key)
	}
	return id, nil
}

type custodyRequestBody struct {
	RequesterID *string `json:"requester_id"`
	Notes       *string `json:"notes" validate:"omitempty,max=2000"`
}

// RequestCustody opens a custody request for a document, optionally on
// behalf of another user.
func RequestCustody(svc custody.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custody service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		documentID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body custodyRequestBody
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		input := custody.RequestCustodyInput{
			DocumentID: documentID,
			Actor:      actor,
			Notes:      body.Notes,
		}
		if body.RequesterID != nil && strings.TrimSpace(*body.RequesterID) != "" {
			requesterID, err := uuid.Parse(strings.TrimSpace(*body.RequesterID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid requester_id"))
				return
			}
			input.RequesterID = requesterID
		}

		result, err := svc.RequestCustody(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type transitionBody struct {
	Status             string     `json:"status" validate:"required"`
	Location           *string    `json:"location" validate:"omitempty,max=500"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	Notes              *string    `json:"notes" validate:"omitempty,max=2000"`
}

// TransitionRequest advances a custody request through its state machine.
func TransitionRequest(svc custody.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custody service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body transitionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseRequestStatus(strings.TrimSpace(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
			return
		}

		request, err := svc.TransitionRequest(r.Context(), custody.TransitionInput{
			RequestID:          requestID,
			Target:             target,
			Actor:              actor,
			Location:           body.Location,
			ExpectedReturnDate: body.ExpectedReturnDate,
			Notes:              body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// ListCustodyRequests returns the filtered, paginated request list.
func ListCustodyRequests(svc custody.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custody service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := custody.ListRequestsParams{Actor: actor}
		query := r.URL.Query()

		if rawStatuses := strings.TrimSpace(query.Get("status")); rawStatuses != "" {
			for _, part := range strings.Split(rawStatuses, ",") {
				status, err := enums.ParseRequestStatus(strings.TrimSpace(part))
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
					return
				}
				params.Statuses = append(params.Statuses, status)
			}
		}

		if raw := strings.TrimSpace(query.Get("requesterId")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid requesterId"))
				return
			}
			params.RequesterID = &id
		}

		if raw := strings.TrimSpace(query.Get("documentId")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid documentId"))
				return
			}
			params.DocumentID = &id
		}

		page, err := queryPage(query.Get("page"), query.Get("limit"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Page = page

		result, err := svc.ListRequests(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetDocumentCustody returns the custody projection for a document.
func GetDocumentCustody(svc custody.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custody service unavailable"))
			return
		}

		documentID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		document, err := svc.GetCustody(r.Context(), documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, document)
	}
}

// GetLocationHistory returns the append-only custody ledger, newest first.
func GetLocationHistory(svc custody.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custody service unavailable"))
			return
		}

		documentID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.GetLocationHistory(r.Context(), documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func queryPage(rawPage, rawLimit string) (pagination.Params, error) {
	params := pagination.Params{}
	if value := strings.TrimSpace(rawPage); value != "" {
		page, err := strconv.Atoi(value)
		if err != nil || page <= 0 {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "page must be a positive integer")
		}
		params.Page = page
	}
	if value := strings.TrimSpace(rawLimit); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil || limit <= 0 {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer")
		}
		params.Limit = limit
	}
	return params, nil
}
