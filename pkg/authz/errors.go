package authz

import "errors"

var (
	ErrMissingAPIKey         = errors.New("api key is required")
	ErrMissingOrganizationID = errors.New("organization id is required")
	ErrMissingNetworkID      = errors.New("network id is required")
	ErrMissingMemberID       = errors.New("member id is required")
	ErrForbidden             = errors.New("forbidden")
	ErrMembershipNotFound    = errors.New("not a member of this organization")
	// ErrResourceAccessDenied deliberately conflates "missing" with "not
	// yours" so a non-owner cannot probe for resource existence.
	ErrResourceAccessDenied = errors.New("resource not found or access denied")
)
