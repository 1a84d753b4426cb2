package handlers

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"gadget-server/internal/managers"
	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

func TestStoreError(t *testing.T) {
	assert.Equal(t, schemas.ProductNotFound, storeError(errors.Wrap(stores.ErrNotFound, "find product"), schemas.ProductNotFound))
	assert.Equal(t, schemas.InvalidID, storeError(stores.ErrInvalidID, schemas.ProductNotFound))
	assert.Equal(t, schemas.DatabaseError, storeError(errors.New("connection reset"), schemas.ProductNotFound))
}

func TestTokenError(t *testing.T) {
	assert.Equal(t, schemas.TokenAlreadyIssued, tokenError(managers.ErrTokenAlreadyIssued))
	assert.Equal(t, schemas.InvalidToken, tokenError(managers.ErrInvalidToken))
	assert.Equal(t, schemas.MailError, tokenError(errors.Wrap(managers.ErrMailNotSent, "mailgun down")))
	assert.Equal(t, schemas.DatabaseError, tokenError(errors.New("timeout")))
}

func TestMediaError(t *testing.T) {
	assert.Equal(t, schemas.InvalidImage, mediaError(errors.Wrap(managers.ErrInvalidImage, "png: bad header"), schemas.ImageUploadFailed))
	assert.Equal(t, schemas.ImageUploadFailed, mediaError(errors.New("s3 down"), schemas.ImageUploadFailed))
}

func TestSortOrder(t *testing.T) {
	testCases := map[string]string{
		"":             stores.SortNewest,
		"newest":       stores.SortNewest,
		"high":         stores.SortPriceDesc,
		"price-desc":   stores.SortPriceDesc,
		"low":          stores.SortPriceAsc,
		"price-asc":    stores.SortPriceAsc,
		"old":          stores.SortOldest,
		"oldest":       stores.SortOldest,
		"alphabetical": stores.SortAlphabetical,
		"random":       stores.SortNewest,
	}
	for sort, want := range testCases {
		assert.Equal(t, want, sortOrder(sort), sort)
	}
}
