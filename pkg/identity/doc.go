// Package identity defines the shared account model consumed by the
// credential, two-factor, session, token, and authorization packages.
//
// An Identity is owned by the persistent store; this package only describes
// its shape and the ordered role enumeration used for rank comparisons.
package identity
