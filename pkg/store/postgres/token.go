package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/virtmesh/authcore/pkg/apitoken"
)

func (s *Store) CreateToken(ctx context.Context, record *apitoken.Record) error {
	expiresAt := pgtype.Timestamptz{}
	if record.ExpiresAt != nil {
		expiresAt = pgtype.Timestamptz{Time: *record.ExpiresAt, Valid: true}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO api_tokens (id, owner_id, name, scopes, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.OwnerID, record.Name, record.Scopes, expiresAt, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

// GetToken fetches a token record scoped to its owner, so a payload that
// names a foreign owner can never match.
func (s *Store) GetToken(ctx context.Context, tokenID, ownerID string) (*apitoken.Record, error) {
	var (
		record    apitoken.Record
		expiresAt pgtype.Timestamptz
	)

	err := s.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, scopes, expires_at, created_at
		FROM api_tokens
		WHERE id = $1 AND owner_id = $2`,
		tokenID, ownerID,
	).Scan(&record.ID, &record.OwnerID, &record.Name, &record.Scopes, &expiresAt, &record.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, apitoken.ErrTokenNotFound
		}
		return nil, fmt.Errorf("get token: %w", err)
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		record.ExpiresAt = &t
	}

	return &record, nil
}

// DeleteToken removes a token record, revoking every opaque token that
// references it.
func (s *Store) DeleteToken(ctx context.Context, tokenID, ownerID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM api_tokens WHERE id = $1 AND owner_id = $2`,
		tokenID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apitoken.ErrTokenNotFound
	}
	return nil
}
