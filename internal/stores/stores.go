// Package stores declares the persistence contracts of the server.
// Every backend returns the sentinel errors below so handlers never see driver errors.
package stores

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"gadget-server/internal/schemas"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrInvalidID = errors.New("invalid id")
)

// Product sort orders accepted by ProductStore.List.
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortPriceDesc    = "price-desc"
	SortPriceAsc     = "price-asc"
	SortAlphabetical = "alphabetical"
)

// ProductQuery filters and paginates a product listing.
// Page starts at 1.
type ProductQuery struct {
	CategoryID string
	Keyword    string
	Sort       string
	Page       int
	Limit      int
}

// Offset returns the number of products skipped before the requested page.
func (q ProductQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// ProductUpdate holds the changed fields of a product, nil fields are left untouched.
type ProductUpdate struct {
	Name            *string
	Description     *string
	Price           *float64
	DiscountedPrice *float64
	Quantity        *int
	CategoryID      *string
	InStock         *bool
	IsFeatured      *bool
	Images          []schemas.Image
}

type UserStore interface {
	// Create inserts the user and fills ID and timestamps. ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *schemas.User) error
	FindByID(ctx context.Context, id string) (*schemas.User, error)
	FindByEmail(ctx context.Context, email string) (*schemas.User, error)
	MarkVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// ClaimEmailSlot sets lastEmailSent to now if it is unset or older than minDelay.
	// It reports false when another mail was sent within minDelay.
	ClaimEmailSlot(ctx context.Context, id string, now time.Time, minDelay time.Duration) (bool, error)
	// ReleaseEmailSlot puts lastEmailSent back to previous if it still holds claimedAt.
	ReleaseEmailSlot(ctx context.Context, id string, claimedAt time.Time, previous *time.Time) error
}

type TokenStore interface {
	// Create inserts the token unless a live token exists for the same user and purpose,
	// in which case ErrDuplicate is returned. Expired tokens are replaced.
	Create(ctx context.Context, token *schemas.Token) error
	// Consume deletes and returns the live token matching all arguments. ErrNotFound otherwise.
	Consume(ctx context.Context, userID, hash string, purpose schemas.TokenPurpose, now time.Time) (*schemas.Token, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type CategoryStore interface {
	Create(ctx context.Context, category *schemas.Category) error
	FindByID(ctx context.Context, id string) (*schemas.Category, error)
	FindAll(ctx context.Context) ([]schemas.Category, int64, error)
	Update(ctx context.Context, id, title string) (*schemas.Category, error)
	Delete(ctx context.Context, id string) error
}

type ProductStore interface {
	Create(ctx context.Context, product *schemas.Product) error
	// FindByID returns the product with its category populated.
	FindByID(ctx context.Context, id string) (*schemas.Product, error)
	// List returns one page of products and the total number of matches.
	List(ctx context.Context, query ProductQuery) ([]schemas.Product, int64, error)
	Update(ctx context.Context, id string, update ProductUpdate) (*schemas.Product, error)
	// Delete removes the product and returns it as it was stored.
	Delete(ctx context.Context, id string) (*schemas.Product, error)
}

// Backend bundles the stores of one database driver.
type Backend interface {
	Users() UserStore
	Tokens() TokenStore
	Categories() CategoryStore
	Products() ProductStore
	// ValidID reports whether id has the shape of a record identifier of this backend.
	ValidID(id string) bool
	Ping(ctx context.Context) error
	Close()
}
