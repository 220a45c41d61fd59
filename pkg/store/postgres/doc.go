// Package postgres persists identities, organization memberships, and API
// token records in PostgreSQL via pgx.
//
// A single Store satisfies the storage interfaces declared by the
// credentials, twofactor, session, apitoken, and authz packages. Every write
// is a single statement, so no explicit transactions are needed. Schema
// migrations are embedded and applied with goose.
package postgres
