package authz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/virtmesh/authcore/pkg/apitoken"
	"github.com/virtmesh/authcore/pkg/credentials"
	"github.com/virtmesh/authcore/pkg/identity"
	"github.com/virtmesh/authcore/pkg/session"
)

// errorBody is the external error surface: a structured body with a single
// code-or-message field.
type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}

// statusForError maps a typed failure to its status class. Unrecognized
// errors are internal: the caller sees a generic message, never
// implementation detail.
func statusForError(err error) (int, string) {
	switch {
	// Validation: missing identifiers or token header.
	case errors.Is(err, ErrMissingAPIKey),
		errors.Is(err, ErrMissingOrganizationID),
		errors.Is(err, ErrMissingNetworkID),
		errors.Is(err, ErrMissingMemberID):
		return http.StatusBadRequest, err.Error()

	// Authentication failures.
	case errors.Is(err, apitoken.ErrMissingAPIKey),
		errors.Is(err, apitoken.ErrInvalidToken),
		errors.Is(err, apitoken.ErrTokenExpired),
		errors.Is(err, apitoken.ErrInvalidAuthorizationType),
		errors.Is(err, apitoken.ErrUnauthorized),
		errors.Is(err, session.ErrUnauthenticated),
		errors.Is(err, session.ErrInvalidSession),
		errors.Is(err, session.ErrSessionExpired),
		errors.Is(err, credentials.ErrInvalidCredentials),
		errors.Is(err, credentials.ErrAccountDisabled),
		errors.Is(err, ErrResourceAccessDenied):
		return http.StatusUnauthorized, err.Error()

	// Authorization failures.
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrMembershipNotFound):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, identity.ErrIdentityNotFound),
		errors.Is(err, credentials.ErrUserNotFound):
		return http.StatusNotFound, err.Error()

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
