package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gadget-server/internal/interfaces"
	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

const userColumns = "id, name, email, password, address, is_verified, last_email_sent, created_at, updated_at"

type UserStore struct {
	pool interfaces.PgxPoolIface
}

func scanUser(row pgx.Row) (*schemas.User, error) {
	user := &schemas.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Address,
		&user.IsVerified, &user.LastEmailSent, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserStore) Create(ctx context.Context, user *schemas.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	id := uuid.NewString()
	queryString := "INSERT INTO users (" + userColumns + ") VALUES ($1, $2, $3, $4, $5, $6, NULL, $7, $7)"
	if _, err := s.pool.Exec(ctx, queryString, id, user.Name, user.Email, user.Password, user.Address, user.IsVerified, now); err != nil {
		return translate(err, "insert user")
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*schemas.User, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*schemas.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (s *UserStore) findOne(ctx context.Context, queryString string, arg string) (*schemas.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	user, err := scanUser(s.pool.QueryRow(ctx, queryString, arg))
	if err != nil {
		return nil, translate(err, "find user")
	}
	return user, nil
}

func (s *UserStore) MarkVerified(ctx context.Context, id string) error {
	return s.exec(ctx, "UPDATE users SET is_verified = TRUE, updated_at = $2 WHERE id = $1", id)
}

func (s *UserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.exec(ctx, "UPDATE users SET password = $3, updated_at = $2 WHERE id = $1", id, passwordHash)
}

func (s *UserStore) exec(ctx context.Context, queryString, id string, args ...interface{}) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, queryString, append([]interface{}{id, time.Now().UTC()}, args...)...)
	if err != nil {
		return translate(err, "update user")
	}
	if tag.RowsAffected() == 0 {
		return stores.ErrNotFound
	}
	return nil
}

func (s *UserStore) ClaimEmailSlot(ctx context.Context, id string, now time.Time, minDelay time.Duration) (bool, error) {
	id, err := parseID(id)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	queryString := `UPDATE users SET last_email_sent = $2, updated_at = $2
		WHERE id = $1 AND (last_email_sent IS NULL OR last_email_sent <= $3)`
	tag, err := s.pool.Exec(ctx, queryString, id, now, now.Add(-minDelay))
	if err != nil {
		return false, translate(err, "claim email slot")
	}
	return tag.RowsAffected() == 1, nil
}

func (s *UserStore) ReleaseEmailSlot(ctx context.Context, id string, claimedAt time.Time, previous *time.Time) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	queryString := `UPDATE users SET last_email_sent = $3 WHERE id = $1 AND last_email_sent = $2`
	if _, err = s.pool.Exec(ctx, queryString, id, claimedAt, previous); err != nil {
		return translate(err, "release email slot")
	}
	return nil
}
