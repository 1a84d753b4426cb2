// Package handlers implements the HTTP handlers of the API.
package handlers

import (
	"github.com/pkg/errors"

	"gadget-server/internal/managers"
	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

// storeError maps a store failure onto the error shown to the client.
// notFound is used for missing records, the shape of that error differs per route.
func storeError(err error, notFound *schemas.CustomError) *schemas.CustomError {
	switch {
	case errors.Is(err, stores.ErrNotFound):
		return notFound
	case errors.Is(err, stores.ErrInvalidID):
		return schemas.InvalidID
	default:
		return schemas.DatabaseError
	}
}

func tokenError(err error) *schemas.CustomError {
	switch {
	case errors.Is(err, managers.ErrTokenAlreadyIssued):
		return schemas.TokenAlreadyIssued
	case errors.Is(err, managers.ErrInvalidToken):
		return schemas.InvalidToken
	case errors.Is(err, managers.ErrMailNotSent):
		return schemas.MailError
	default:
		return schemas.DatabaseError
	}
}

func mediaError(err error, fallback *schemas.CustomError) *schemas.CustomError {
	if errors.Is(err, managers.ErrInvalidImage) {
		return schemas.InvalidImage
	}
	return fallback
}
