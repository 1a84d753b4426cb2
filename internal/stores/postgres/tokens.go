package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"gadget-server/internal/interfaces"
	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

// TokenStore keeps at most one row per (user_id, purpose). There is no native
// expiry, expired rows are removed by DeleteExpired.
type TokenStore struct {
	pool interfaces.PgxPoolIface
}

// Create overwrites an expired row of the same user and purpose. A live row
// makes the conflict clause skip the update, so nothing is returned.
func (s *TokenStore) Create(ctx context.Context, token *schemas.Token) error {
	userID, err := parseID(token.UserID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	queryString := `INSERT INTO tokens (id, user_id, hash, purpose, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, purpose) DO UPDATE
		SET id = EXCLUDED.id, hash = EXCLUDED.hash, created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at
		WHERE tokens.expires_at <= EXCLUDED.created_at
		RETURNING id`

	var id string
	err = s.pool.QueryRow(ctx, queryString, uuid.NewString(), userID, token.Hash, string(token.Purpose),
		token.CreatedAt, token.ExpiresAt).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return stores.ErrDuplicate
	}
	if err != nil {
		return translate(err, "insert token")
	}

	token.ID = id
	return nil
}

func (s *TokenStore) Consume(ctx context.Context, userID, hash string, purpose schemas.TokenPurpose, now time.Time) (*schemas.Token, error) {
	userID, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	queryString := `DELETE FROM tokens
		WHERE user_id = $1 AND hash = $2 AND purpose = $3 AND expires_at > $4
		RETURNING id, user_id, hash, purpose, created_at, expires_at`

	token := &schemas.Token{}
	var tokenPurpose string
	err = s.pool.QueryRow(ctx, queryString, userID, hash, string(purpose), now).
		Scan(&token.ID, &token.UserID, &token.Hash, &tokenPurpose, &token.CreatedAt, &token.ExpiresAt)
	if err != nil {
		return nil, translate(err, "consume token")
	}
	token.Purpose = schemas.TokenPurpose(tokenPurpose)
	return token, nil
}

func (s *TokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, "DELETE FROM tokens WHERE expires_at <= $1", now)
	if err != nil {
		return 0, translate(err, "delete expired tokens")
	}
	return tag.RowsAffected(), nil
}
