package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

func newPoolMock(t *testing.T) pgxmock.PgxPoolIface {
	poolMock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, poolMock.ExpectationsWereMet())
	})
	return poolMock
}

var productRowColumns = []string{"id", "name", "description", "price", "discounted_price", "category_id",
	"quantity", "in_stock", "sold", "images", "is_featured", "created_at", "updated_at"}

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts the user", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(pgxmock.AnyArg(), "Ada", "ada@example.com", "hash", "Main St 1", false, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		user := &schemas.User{Name: "Ada", Email: "ada@example.com", Password: "hash", Address: "Main St 1"}
		require.NoError(t, New(poolMock).Users().Create(ctx, user))

		_, err := uuid.Parse(user.ID)
		assert.NoError(t, err)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("taken email", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := New(poolMock).Users().Create(ctx, &schemas.User{Email: "ada@example.com"})
		assert.ErrorIs(t, err, stores.ErrDuplicate)
	})
}

func TestUserStoreFind(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	columns := []string{"id", "name", "email", "password", "address", "is_verified", "last_email_sent", "created_at", "updated_at"}

	t.Run("by email", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email")).
			WithArgs("ada@example.com").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(id, "Ada", "ada@example.com", "hash", "Main St 1", true, nil, time.Now(), time.Now()))

		user, err := New(poolMock).Users().FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.True(t, user.IsVerified)
		assert.Nil(t, user.LastEmailSent)
	})

	t.Run("unknown id", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email")).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows(columns))

		_, err := New(poolMock).Users().FindByID(ctx, id)
		assert.ErrorIs(t, err, stores.ErrNotFound)
	})

	t.Run("malformed id never reaches the database", func(t *testing.T) {
		poolMock := newPoolMock(t)

		_, err := New(poolMock).Users().FindByID(ctx, "42")
		assert.ErrorIs(t, err, stores.ErrInvalidID)
	})
}

func TestUserStoreClaimEmailSlot(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	now := time.Now().UTC()

	poolMock := newPoolMock(t)
	poolMock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_email_sent")).
		WithArgs(id, now, now.Add(-15*time.Minute)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	poolMock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_email_sent")).
		WithArgs(id, now, now.Add(-15*time.Minute)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	users := New(poolMock).Users()

	claimed, err := users.ClaimEmailSlot(ctx, id, now, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = users.ClaimEmailSlot(ctx, id, now, 15*time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestUserStoreReleaseEmailSlot(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	claimedAt := time.Now().UTC()
	previous := claimedAt.Add(-time.Hour)

	poolMock := newPoolMock(t)
	poolMock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_email_sent = $3 WHERE id = $1 AND last_email_sent = $2")).
		WithArgs(id, claimedAt, &previous).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, New(poolMock).Users().ReleaseEmailSlot(ctx, id, claimedAt, &previous))
	assert.ErrorIs(t, New(poolMock).Users().ReleaseEmailSlot(ctx, "42", claimedAt, nil), stores.ErrInvalidID)
}

func TestUserStoreUpdatePassword(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	poolMock := newPoolMock(t)
	poolMock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password")).
		WithArgs(id, pgxmock.AnyArg(), "new-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := New(poolMock).Users().UpdatePassword(ctx, id, "new-hash")
	assert.ErrorIs(t, err, stores.ErrNotFound)
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()
	now := time.Now().UTC()
	token := func() *schemas.Token {
		return &schemas.Token{
			UserID:    userID,
			Hash:      "abc",
			Purpose:   schemas.PurposeVerification,
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		}
	}

	t.Run("create", func(t *testing.T) {
		poolMock := newPoolMock(t)
		tokenID := uuid.NewString()
		poolMock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tokens")).
			WithArgs(pgxmock.AnyArg(), userID, "abc", "verification", now, now.Add(time.Hour)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(tokenID))

		tok := token()
		require.NoError(t, New(poolMock).Tokens().Create(ctx, tok))
		assert.Equal(t, tokenID, tok.ID)
	})

	t.Run("create while a live token exists", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tokens")).
			WithArgs(pgxmock.AnyArg(), userID, "abc", "verification", now, now.Add(time.Hour)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		err := New(poolMock).Tokens().Create(ctx, token())
		assert.ErrorIs(t, err, stores.ErrDuplicate)
	})

	t.Run("consume", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectQuery(regexp.QuoteMeta("DELETE FROM tokens")).
			WithArgs(userID, "abc", "passwordReset", now).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "hash", "purpose", "created_at", "expires_at"}).
				AddRow(uuid.NewString(), userID, "abc", "passwordReset", now, now.Add(time.Hour)))

		consumed, err := New(poolMock).Tokens().Consume(ctx, userID, "abc", schemas.PurposePasswordReset, now)
		require.NoError(t, err)
		assert.Equal(t, schemas.PurposePasswordReset, consumed.Purpose)
	})

	t.Run("consume twice", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectQuery(regexp.QuoteMeta("DELETE FROM tokens")).
			WithArgs(userID, "abc", "verification", now).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "hash", "purpose", "created_at", "expires_at"}).
				AddRow(uuid.NewString(), userID, "abc", "verification", now, now.Add(time.Hour)))
		poolMock.ExpectQuery(regexp.QuoteMeta("DELETE FROM tokens")).
			WithArgs(userID, "abc", "verification", now).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "hash", "purpose", "created_at", "expires_at"}))

		tokens := New(poolMock).Tokens()
		_, err := tokens.Consume(ctx, userID, "abc", schemas.PurposeVerification, now)
		require.NoError(t, err)
		_, err = tokens.Consume(ctx, userID, "abc", schemas.PurposeVerification, now)
		assert.ErrorIs(t, err, stores.ErrNotFound)
	})

	t.Run("delete expired", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE expires_at <= $1")).
			WithArgs(now).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))

		n, err := New(poolMock).Tokens().DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)
	})
}

func TestCategoryStore(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("find all", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, created_at, updated_at FROM categories ORDER BY")).
			WillReturnRows(pgxmock.NewRows([]string{"id", "title", "created_at", "updated_at"}).
				AddRow(id, "Phones", time.Now(), time.Now()).
				AddRow(uuid.NewString(), "Laptops", time.Now(), time.Now()))

		categories, count, err := New(poolMock).Categories().FindAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
		assert.Equal(t, "Phones", categories[0].Title)
	})

	t.Run("update to taken title", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectQuery(regexp.QuoteMeta("UPDATE categories SET title")).
			WithArgs(id, "Phones", pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := New(poolMock).Categories().Update(ctx, id, "Phones")
		assert.ErrorIs(t, err, stores.ErrDuplicate)
	})

	t.Run("delete unknown", func(t *testing.T) {
		poolMock := newPoolMock(t)
		poolMock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories")).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := New(poolMock).Categories().Delete(ctx, id)
		assert.ErrorIs(t, err, stores.ErrNotFound)
	})
}

func TestProductStoreList(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.NewString()
	images := []byte(`[{"url":"https://cdn/a.jpg","imageId":"gadgets/a.jpg"}]`)

	poolMock := newPoolMock(t)
	poolMock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE category_id = $1 AND (name ILIKE $2 OR description ILIKE $2)")).
		WithArgs(categoryID, `%50\%%`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(10)))
	poolMock.ExpectQuery(regexp.QuoteMeta("ORDER BY price DESC, id LIMIT $3 OFFSET $4")).
		WithArgs(categoryID, `%50\%%`, 8, 8).
		WillReturnRows(pgxmock.NewRows(productRowColumns).
			AddRow(uuid.NewString(), "Phone X", "50% off", 900.0, 0.0, categoryID, 3, true, 0, images, false, time.Now(), time.Now()).
			AddRow(uuid.NewString(), "Phone Y", "50% off", 500.0, 0.0, categoryID, 1, true, 0, images, false, time.Now(), time.Now()))
	poolMock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE id = ANY($1)")).
		WithArgs([]string{categoryID}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "created_at", "updated_at"}).
			AddRow(categoryID, "Phones", time.Now(), time.Now()))

	products, total, err := New(poolMock).Products().List(ctx, stores.ProductQuery{
		CategoryID: categoryID,
		Keyword:    "50%",
		Sort:       stores.SortPriceDesc,
		Page:       2,
		Limit:      8,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 10, total)
	require.Len(t, products, 2)
	assert.Equal(t, 900.0, products[0].Price)
	assert.Equal(t, "Phones", products[1].Category.Title)
	assert.Equal(t, "gadgets/a.jpg", products[0].Images[0].ImageID)
}

func TestProductStoreDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	images := []byte(`[{"url":"https://cdn/a.jpg","imageId":"gadgets/a.jpg"},{"url":"https://cdn/b.jpg","imageId":"gadgets/b.jpg"}]`)

	poolMock := newPoolMock(t)
	poolMock.ExpectQuery(regexp.QuoteMeta("DELETE FROM products WHERE id = $1 RETURNING")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(productRowColumns).
			AddRow(id, "Phone X", "desc", 900.0, 0.0, "", 3, true, 0, images, false, time.Now(), time.Now()))

	product, err := New(poolMock).Products().Delete(ctx, id)
	require.NoError(t, err)
	assert.Len(t, product.Images, 2)
}

func TestProductStoreUpdate(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	name := "Phone Z"
	price := 10.5

	poolMock := newPoolMock(t)
	poolMock.ExpectQuery(regexp.QuoteMeta("UPDATE products SET updated_at = $2, name = $3, price = $4 WHERE id = $1")).
		WithArgs(id, pgxmock.AnyArg(), name, price).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := New(poolMock).Products().Update(ctx, id, stores.ProductUpdate{Name: &name, Price: &price})
	assert.ErrorIs(t, err, stores.ErrDuplicate)
}

func TestListOrder(t *testing.T) {
	assert.Equal(t, " ORDER BY LOWER(name) ASC, id", listOrder(stores.SortAlphabetical))
	assert.Equal(t, " ORDER BY created_at DESC, id DESC", listOrder("unknown"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_a\\b`, escapeLike(`100%_a\b`))
}
