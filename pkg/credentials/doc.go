// Package credentials validates email/password logins as a small state
// machine: lockout check, adaptive-hash comparison, account status, and an
// optional second-factor step delegated to the two-factor verifier.
//
// "Second factor required" is an expected branch, not an error: Authenticate
// returns a tagged Result so callers can branch on a value and prompt for a
// code.
package credentials
