package authz

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/virtmesh/authcore/pkg/apitoken"
	"github.com/virtmesh/authcore/pkg/identity"
)

// HeaderToken is the fixed custom request header carrying the opaque API
// token for token-authenticated calls.
const HeaderToken = "X-Virtmesh-Auth"

// Route/query parameter names for scoping identifiers.
const (
	ParamOrgID    = "orgid"
	ParamNetID    = "nwid"
	ParamMemberID = "memberId"
)

// TokenVerifier resolves an opaque API token to a caller identity.
// Satisfied by *apitoken.Service.
type TokenVerifier interface {
	Verify(ctx context.Context, opaqueToken, requiredScope string, requireAdmin bool) (*identity.Identity, []string, error)
}

// MembershipStorage looks up a caller's organization-scoped role.
type MembershipStorage interface {
	GetOrganizationRole(ctx context.Context, userID, orgID string) (identity.Role, error)
}

// OwnerResolver reports the owner id of a personal-scoped resource.
type OwnerResolver func(ctx context.Context, resourceID string) (string, error)

// OrganizationRouteOptions configures an organization-scoped route. The
// organization id is always required; network and member ids only when the
// operation declares them mandatory.
type OrganizationRouteOptions struct {
	MinimumRole      identity.Role
	RequireAdmin     bool
	RequireNetworkID bool
	RequireMemberID  bool
}

// PersonalRouteOptions configures a personal-scoped route.
type PersonalRouteOptions struct {
	RequireAdmin     bool
	RequireNetworkID bool
	// ResolveOwner, when set, is called with the network id and the route
	// refuses callers that do not own the resource.
	ResolveOwner OwnerResolver
}

// Middleware wraps privileged operations with token authentication and role
// checks.
type Middleware struct {
	tokens      TokenVerifier
	memberships MembershipStorage
	logger      *slog.Logger
}

// Option is a functional option for Middleware.
type Option func(*Middleware)

// WithLogger sets a custom logger for the middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		m.logger = logger
	}
}

// New creates the authorization middleware.
func New(tokens TokenVerifier, memberships MembershipStorage, opts ...Option) *Middleware {
	m := &Middleware{
		tokens:      tokens,
		memberships: memberships,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// SecureOrganization wraps an organization-scoped operation. The caller must
// present a token carrying the organization scope and hold at least the
// declared minimum role within the target organization.
func (m *Middleware) SecureOrganization(opts OrganizationRouteOptions, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		apiKey := r.Header.Get(HeaderToken)
		if apiKey == "" {
			writeError(w, http.StatusBadRequest, ErrMissingAPIKey.Error())
			return
		}

		orgID := requestParam(r, ParamOrgID)
		if orgID == "" {
			writeError(w, http.StatusBadRequest, ErrMissingOrganizationID.Error())
			return
		}

		networkID := requestParam(r, ParamNetID)
		if opts.RequireNetworkID && networkID == "" {
			writeError(w, http.StatusBadRequest, ErrMissingNetworkID.Error())
			return
		}

		memberID := requestParam(r, ParamMemberID)
		if opts.RequireMemberID && memberID == "" {
			writeError(w, http.StatusBadRequest, ErrMissingMemberID.Error())
			return
		}

		ident, tokenScopes, err := m.tokens.Verify(ctx, apiKey, apitoken.ScopeOrganization, opts.RequireAdmin)
		if err != nil {
			m.respondError(ctx, w, err)
			return
		}

		role, err := m.memberships.GetOrganizationRole(ctx, ident.ID, orgID)
		if err != nil {
			m.respondError(ctx, w, ErrMembershipNotFound)
			return
		}
		if !role.AtLeast(opts.MinimumRole) {
			writeError(w, http.StatusForbidden, ErrForbidden.Error())
			return
		}

		caller := &Caller{
			Identity:  ident,
			Scopes:    tokenScopes,
			OrgID:     orgID,
			NetworkID: networkID,
			MemberID:  memberID,
		}
		next.ServeHTTP(w, r.WithContext(withCaller(ctx, caller)))
	}
}

// SecurePersonal wraps a personal-scoped operation. When an owner resolver
// is configured, a caller that does not own the target resource is refused
// without revealing whether the resource exists.
func (m *Middleware) SecurePersonal(opts PersonalRouteOptions, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		apiKey := r.Header.Get(HeaderToken)
		if apiKey == "" {
			writeError(w, http.StatusBadRequest, ErrMissingAPIKey.Error())
			return
		}

		networkID := requestParam(r, ParamNetID)
		if opts.RequireNetworkID && networkID == "" {
			writeError(w, http.StatusBadRequest, ErrMissingNetworkID.Error())
			return
		}

		ident, tokenScopes, err := m.tokens.Verify(ctx, apiKey, apitoken.ScopePersonal, opts.RequireAdmin)
		if err != nil {
			m.respondError(ctx, w, err)
			return
		}

		if opts.ResolveOwner != nil && networkID != "" {
			ownerID, err := opts.ResolveOwner(ctx, networkID)
			if err != nil || ownerID != ident.ID {
				writeError(w, http.StatusUnauthorized, ErrResourceAccessDenied.Error())
				return
			}
		}

		caller := &Caller{
			Identity:  ident,
			Scopes:    tokenScopes,
			NetworkID: networkID,
			MemberID:  requestParam(r, ParamMemberID),
		}
		next.ServeHTTP(w, r.WithContext(withCaller(ctx, caller)))
	}
}

// respondError translates a typed failure into the external error surface.
// Anything unrecognized is an internal failure: logged, and collapsed to a
// generic message.
func (m *Middleware) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := statusForError(err)
	if status == http.StatusInternalServerError {
		m.logger.ErrorContext(ctx, "internal failure in authorization middleware",
			slog.Any("error", err),
		)
	}
	writeError(w, status, message)
}

// requestParam reads a scoping identifier from the chi route context,
// falling back to the query string.
func requestParam(r *http.Request, name string) string {
	if v := chi.URLParam(r, name); v != "" {
		return v
	}
	return r.URL.Query().Get(name)
}
