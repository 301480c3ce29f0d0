package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/handharbeni/notaryflow-backend/api/middleware"
	"github.com/handharbeni/notaryflow-backend/api/responses"
	"github.com/handharbeni/notaryflow-backend/api/validators"
	"github.com/handharbeni/notaryflow-backend/internal/documents"
	pkgerrors "github.com/handharbeni/notaryflow-backend/pkg/errors"
	"github.com/handharbeni/notaryflow-backend/pkg/logger"
)

type documentRegisterRequest struct {
	Title         string `json:"title" validate:"required,max=500"`
	ReferenceCode string `json:"reference_code" validate:"required,max=100"`
	Location      string `json:"location" validate:"required,max=500"`
}

// RegisterDocument files a new physical document into the archive.
func RegisterDocument(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		uid, err := uuid.Parse(userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id"))
			return
		}

		var body documentRegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		document, err := svc.Register(r.Context(), documents.RegisterInput{
			Title:         strings.TrimSpace(body.Title),
			ReferenceCode: strings.TrimSpace(body.ReferenceCode),
			Location:      strings.TrimSpace(body.Location),
			ActorUserID:   uid,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, document)
	}
}

// GetDocument returns a single document row.
func GetDocument(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "documents service unavailable"))
			return
		}

		documentID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		document, err := svc.Get(r.Context(), documentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, document)
	}
}
