// Package totp implements the time-based one-time password primitives used
// as a second authentication factor: RFC 4226 HOTP, RFC 6238 TOTP with a
// clock-drift tolerance window, otpauth:// provisioning URIs with QR
// rendering, and single-use recovery codes.
//
// This package is stateless; persistence and secret-at-rest protection are
// handled by the enrollment service layered on top of it.
package totp
