// Package twofactor manages second-factor enrollment and verification for
// identities: pending secret setup, activation with recovery-code issuance,
// disablement, and single-use recovery-code redemption.
//
// The TOTP secret is encrypted at rest under a key derived from the
// process-wide root secret with the second-factor context label; recovery
// codes are persisted only as hashes.
package twofactor
