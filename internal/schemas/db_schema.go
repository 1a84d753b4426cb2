// Package schemas defines the data structures
package schemas

import (
	"time"
)

// User represents the data model for a user in the system.
type User struct {
	ID            string     `json:"id"`            // Unique identifier for the user.
	Name          string     `json:"name"`          // Display name of the user.
	Email         string     `json:"email"`         // Email address of the user, unique.
	Password      string     `json:"-"`             // Password hash of the user, never serialized.
	Address       string     `json:"address"`       // Delivery address of the user.
	IsVerified    bool       `json:"isVerified"`    // Whether the email address was verified.
	LastEmailSent *time.Time `json:"lastEmailSent"` // Timestamp of the last password reset mail.
	CreatedAt     time.Time  `json:"createdAt"`     // Timestamp when the user was created.
	UpdatedAt     time.Time  `json:"updatedAt"`     // Timestamp of the last modification.
}

// TokenPurpose tags what a Token may be used for.
type TokenPurpose string

const (
	PurposeVerification  TokenPurpose = "verification"
	PurposePasswordReset TokenPurpose = "passwordReset"
)

// Token is a single-use credential linked to a user. Only the hash of the
// token value is persisted, the plain value travels in the emailed link.
type Token struct {
	ID        string       `json:"id"`        // Unique identifier for the token record.
	UserID    string       `json:"userId"`    // Identifier of the user owning the token.
	Hash      string       `json:"-"`         // Hex encoded SHA-256 of the token value.
	Purpose   TokenPurpose `json:"purpose"`   // What the token authorizes.
	CreatedAt time.Time    `json:"createdAt"` // Timestamp when the token was issued.
	ExpiresAt time.Time    `json:"expiresAt"` // Timestamp after which the token is void.
}

// Category groups products, titles are unique.
type Category struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Image is a picture stored on the media host.
// ImageID is the opaque identifier needed to destroy it again.
type Image struct {
	URL     string `json:"url"`
	ImageID string `json:"imageId"`
}

// Product represents an article of the store.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DiscountedPrice float64   `json:"discountedPrice"`
	CategoryID      string    `json:"categoryId"`
	Category        *Category `json:"category,omitempty"` // Populated on reads.
	Quantity        int       `json:"quantity"`
	InStock         bool      `json:"inStock"`
	Sold            int       `json:"sold"`
	Images          []Image   `json:"images"`
	IsFeatured      bool      `json:"isFeatured"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
