package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/virtmesh/authcore/pkg/identity"
)

const identityColumns = `id, name, email, role, active, password_hash, failed_attempts,
	last_failed_at, two_factor_enabled, two_factor_secret, recovery_code_hashes,
	last_login, created_at`

func scanIdentity(row pgx.Row) (*identity.Identity, error) {
	var (
		ident        identity.Identity
		role         string
		lastFailedAt pgtype.Timestamptz
		lastLogin    pgtype.Timestamptz
	)

	err := row.Scan(
		&ident.ID,
		&ident.Name,
		&ident.Email,
		&role,
		&ident.Active,
		&ident.PasswordHash,
		&ident.FailedAttempts,
		&lastFailedAt,
		&ident.TwoFactorEnabled,
		&ident.TwoFactorSecret,
		&ident.RecoveryCodeHashes,
		&lastLogin,
		&ident.CreatedAt,
	)
	if err != nil {
		if isNotFound(err) {
			return nil, identity.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("scan identity: %w", err)
	}

	ident.Role, err = identity.ParseRole(role)
	if err != nil {
		return nil, err
	}
	ident.LastFailedAt = lastFailedAt.Time
	ident.LastLogin = lastLogin.Time

	return &ident, nil
}

// CreateIdentity inserts a new account row. Emails are unique
// case-insensitively.
func (s *Store) CreateIdentity(ctx context.Context, ident *identity.Identity) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO identities (id, name, email, role, active, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ident.ID, ident.Name, ident.Email, ident.Role.String(), ident.Active,
		ident.PasswordHash, ident.CreatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}

func (s *Store) GetIdentityByID(ctx context.Context, id string) (*identity.Identity, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
	return scanIdentity(row)
}

func (s *Store) GetIdentityByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE lower(email) = lower($1)`, email)
	return scanIdentity(row)
}

// UpdateLoginAttempts records the failure counter state. A zero lastFailedAt
// clears the timestamp.
func (s *Store) UpdateLoginAttempts(ctx context.Context, id string, failedAttempts int, lastFailedAt time.Time) error {
	ts := pgtype.Timestamptz{Time: lastFailedAt, Valid: !lastFailedAt.IsZero()}
	tag, err := s.pool.Exec(ctx,
		`UPDATE identities SET failed_attempts = $2, last_failed_at = $3 WHERE id = $1`,
		id, failedAttempts, ts,
	)
	if err != nil {
		return fmt.Errorf("update login attempts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrIdentityNotFound
	}
	return nil
}

func (s *Store) UpdateTwoFactor(ctx context.Context, id string, enabled bool, encryptedSecret string, recoveryCodeHashes []string) error {
	if recoveryCodeHashes == nil {
		recoveryCodeHashes = []string{}
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE identities
		SET two_factor_enabled = $2, two_factor_secret = $3, recovery_code_hashes = $4
		WHERE id = $1`,
		id, enabled, encryptedSecret, recoveryCodeHashes,
	)
	if err != nil {
		return fmt.Errorf("update two factor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrIdentityNotFound
	}
	return nil
}

func (s *Store) UpdateRecoveryCodes(ctx context.Context, id string, recoveryCodeHashes []string) error {
	if recoveryCodeHashes == nil {
		recoveryCodeHashes = []string{}
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE identities SET recovery_code_hashes = $2 WHERE id = $1`,
		id, recoveryCodeHashes,
	)
	if err != nil {
		return fmt.Errorf("update recovery codes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrIdentityNotFound
	}
	return nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE identities SET last_login = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrIdentityNotFound
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, id, name, email string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE identities SET name = $2, email = $3 WHERE id = $1`,
		id, name, email,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrIdentityNotFound
	}
	return nil
}
