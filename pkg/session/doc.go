// Package session turns verified identities into signed claim sets with a
// configurable lifetime, refreshes claims on profile updates, and resolves
// claims back to live identities.
//
// Claims are serialized as HS256 JWTs signed with a key derived from the
// process root secret under the session context label. Resolution fails
// closed when the backing identity is missing, inactive, or carries a
// legacy bare-integer id left over from old installations.
package session
