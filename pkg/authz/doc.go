// Package authz wraps privileged HTTP operations with API-token
// authentication and role-based authorization.
//
// Route wrappers read the opaque token from the X-Virtmesh-Auth header and
// scoping identifiers from chi route or query parameters, resolve the caller
// through the token service, and enforce a minimum organization role or
// personal resource ownership before the wrapped handler runs.
//
// This package is the single boundary where typed failures from the inner
// packages are translated to the external {"error": ...} surface: validation
// 400, authentication/authorization 401/403, not found 404, internal 500.
// Cryptographic and invariant failures are logged server-side and collapse
// to a generic internal error.
package authz
