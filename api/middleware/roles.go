package middleware

import (
	"net/http"

	"github.com/handharbeni/notaryflow-backend/api/responses"
	pkgenums "github.com/handharbeni/notaryflow-backend/pkg/enums"
	pkgerrors "github.com/handharbeni/notaryflow-backend/pkg/errors"
	"github.com/handharbeni/notaryflow-backend/pkg/logger"
)

// RequireRole rejects requests whose actor does not hold the exact role.
func RequireRole(role pkgenums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role.String() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePrivileged limits a route to admins and front desk staff.
func RequirePrivileged(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := pkgenums.ParseUserRole(RoleFromContext(r.Context()))
			if err != nil || !role.IsPrivileged() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "privileged role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
