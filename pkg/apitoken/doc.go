// Package apitoken issues and verifies opaque, encrypted, revocable API
// tokens scoped to authorization types.
//
// The raw token string is never persisted: issuance returns the encrypted
// envelope as the only usable copy, and verification requires both a
// successful decryption and a matching live token record. Deleting the
// record revokes every copy of the token.
package apitoken
