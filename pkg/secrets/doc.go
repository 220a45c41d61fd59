// Package secrets derives per-context symmetric keys from one process-wide
// root secret and encrypts/decrypts opaque payloads under them.
//
// Keys are produced with HKDF-SHA-256 so that distinct context labels yield
// unrelated keys: compromise of the key for one context does not expose
// material encrypted under another. Payloads are protected with AES-256-CBC
// and a fresh random IV per call; the envelope is a delimited text form
// `hex(iv):hex(ciphertext)` that is self-contained for storage.
//
// All operations are pure and stateless and may run concurrently from many
// requests.
//
// # Usage
//
//	key, err := secrets.DeriveKey(rootSecret, secrets.ContextTwoFactor)
//	if err != nil {
//	    // handle error
//	}
//
//	envelope, err := secrets.Encrypt("JBSWY3DPEHPK3PXP", key)
//	plain, err := secrets.Decrypt(envelope, key)
//
// # Error Handling
//
// All public functions return errors wrapping a package sentinel such as
// ErrMalformedEnvelope or ErrInvalidKeyLength. Match them with errors.Is.
package secrets
