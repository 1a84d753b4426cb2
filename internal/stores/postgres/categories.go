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

const categoryColumns = "id, title, created_at, updated_at"

type CategoryStore struct {
	pool interfaces.PgxPoolIface
}

func scanCategory(row pgx.Row) (*schemas.Category, error) {
	category := &schemas.Category{}
	if err := row.Scan(&category.ID, &category.Title, &category.CreatedAt, &category.UpdatedAt); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryStore) Create(ctx context.Context, category *schemas.Category) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	id := uuid.NewString()
	queryString := "INSERT INTO categories (" + categoryColumns + ") VALUES ($1, $2, $3, $3)"
	if _, err := s.pool.Exec(ctx, queryString, id, category.Title, now); err != nil {
		return translate(err, "insert category")
	}

	category.ID = id
	category.CreatedAt = now
	category.UpdatedAt = now
	return nil
}

func (s *CategoryStore) FindByID(ctx context.Context, id string) (*schemas.Category, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	category, err := scanCategory(s.pool.QueryRow(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = $1", id))
	if err != nil {
		return nil, translate(err, "find category")
	}
	return category, nil
}

func (s *CategoryStore) FindAll(ctx context.Context) ([]schemas.Category, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	categories, err := s.query(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY created_at DESC, id")
	if err != nil {
		return nil, 0, err
	}
	return categories, int64(len(categories)), nil
}

// findMany loads the categories with the given ids, keyed by id.
func (s *CategoryStore) findMany(ctx context.Context, ids []string) (map[string]*schemas.Category, error) {
	result := make(map[string]*schemas.Category, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	categories, err := s.query(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		result[categories[i].ID] = &categories[i]
	}
	return result, nil
}

func (s *CategoryStore) query(ctx context.Context, queryString string, args ...interface{}) ([]schemas.Category, error) {
	rows, err := s.pool.Query(ctx, queryString, args...)
	if err != nil {
		return nil, translate(err, "find categories")
	}
	defer rows.Close()

	categories := make([]schemas.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, translate(err, "scan category")
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "find categories")
	}
	return categories, nil
}

func (s *CategoryStore) Update(ctx context.Context, id, title string) (*schemas.Category, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	queryString := "UPDATE categories SET title = $2, updated_at = $3 WHERE id = $1 RETURNING " + categoryColumns
	category, err := scanCategory(s.pool.QueryRow(ctx, queryString, id, title, time.Now().UTC()))
	if err != nil {
		return nil, translate(err, "update category")
	}
	return category, nil
}

func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return translate(err, "delete category")
	}
	if tag.RowsAffected() == 0 {
		return stores.ErrNotFound
	}
	return nil
}
