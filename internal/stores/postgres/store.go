// Package postgres implements the stores on top of a pgx connection pool.
package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"

	"gadget-server/internal/interfaces"
	"gadget-server/internal/stores"
	"gadget-server/internal/stores/postgres/migrations"
)

const opTimeout = 5 * time.Second

// Store is the PostgreSQL backend.
type Store struct {
	pool       interfaces.PgxPoolIface
	users      *UserStore
	tokens     *TokenStore
	categories *CategoryStore
	products   *ProductStore
}

// Connect opens the pool, applies the migrations and returns the store.
func Connect(ctx context.Context, url string) (*Store, error) {
	log.Info("Initializing database")

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, errors.Wrap(err, "configure database")
	}
	config.MinConns = 5
	config.MaxConns = 30
	config.MaxConnIdleTime = time.Minute * 2
	config.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Connected to database")
	return New(pool), nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "set migration dialect")
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

// New builds the stores on an existing pool.
func New(pool interfaces.PgxPoolIface) *Store {
	categories := &CategoryStore{pool: pool}
	return &Store{
		pool:       pool,
		users:      &UserStore{pool: pool},
		tokens:     &TokenStore{pool: pool},
		categories: categories,
		products:   &ProductStore{pool: pool, categories: categories},
	}
}

func (s *Store) Users() stores.UserStore { return s.users }
func (s *Store) Tokens() stores.TokenStore { return s.tokens }
func (s *Store) Categories() stores.CategoryStore { return s.categories }
func (s *Store) Products() stores.ProductStore { return s.products }

func (s *Store) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", stores.ErrInvalidID
	}
	return parsed.String(), nil
}

// translate maps driver errors onto the store sentinels.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return stores.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return stores.ErrDuplicate
		case "23503": // foreign_key_violation
			return stores.ErrNotFound
		case "22P02": // invalid_text_representation
			return stores.ErrInvalidID
		}
	}
	return errors.Wrap(err, op)
}
