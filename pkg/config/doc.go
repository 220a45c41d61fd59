// Package config loads the authentication subsystem's settings from
// environment variables, with optional .env file support for local
// development.
//
// The root secret is the only mandatory setting: every encryption and
// signing key in the system is derived from it, so loading fails fast when
// it is absent rather than letting a service start with empty key material.
package config
