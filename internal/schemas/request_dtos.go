// Package schemas defines the request structures for various operations in the application.
package schemas

// Fields tagged with sanitize:"-" are passed through untouched by the sanitizer,
// passwords would otherwise be altered by the HTML policy.

// RegistrationRequest is a struct that represents a registration request
// Name is required and must be less than 100 characters
// Email is required and must be a valid email
// Password is required and must be at least 6 characters
// ConfirmPassword is required and must equal Password
// Address is required and must be less than 256 characters
type RegistrationRequest struct {
	Name            string `json:"name" form:"name" validate:"required,max=100"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=6,max=72" sanitize:"-"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password" sanitize:"-"`
	Address         string `json:"address" form:"address" validate:"required,max=256"`
}

// LoginRequest is a struct that represents a login request
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required" sanitize:"-"`
}

// ForgotPasswordRequest is a struct that represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// UpdatePasswordRequest is a struct that represents the final step of a password reset
type UpdatePasswordRequest struct {
	Password        string `json:"password" form:"password" validate:"required,min=6,max=72" sanitize:"-"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password" sanitize:"-"`
}

// CategoryRequest is a struct that represents a create or update category request
// Title is required and must be less than 64 characters
type CategoryRequest struct {
	Title string `json:"title" form:"title" validate:"required,max=64"`
}

// CreateProductRequest is a struct that represents the form fields of a create product request.
// The images are read from the multipart form separately.
type CreateProductRequest struct {
	Name            string  `form:"name" json:"name" validate:"required,max=128"`
	Description     string  `form:"description" json:"description" validate:"required,max=4096"`
	Price           float64 `form:"price" json:"price" validate:"required,gt=0"`
	DiscountedPrice float64 `form:"discountedPrice" json:"discountedPrice" validate:"gte=0"`
	Quantity        int     `form:"quantity" json:"quantity" validate:"required,gt=0"`
	Category        string  `form:"category" json:"category" validate:"required"`
	IsFeatured      bool    `form:"isFeatured" json:"isFeatured"`
}

// UpdateProductRequest is a struct that represents the form fields of an update product request.
// Every field is optional, nil fields keep the stored value.
type UpdateProductRequest struct {
	Name            *string  `form:"name" json:"name" validate:"omitempty,max=128"`
	Description     *string  `form:"description" json:"description" validate:"omitempty,max=4096"`
	Price           *float64 `form:"price" json:"price" validate:"omitempty,gt=0"`
	DiscountedPrice *float64 `form:"discountedPrice" json:"discountedPrice" validate:"omitempty,gte=0"`
	Quantity        *int     `form:"quantity" json:"quantity" validate:"omitempty,gte=0"`
	Category        *string  `form:"category" json:"category" validate:"omitempty"`
	InStock         *bool    `form:"inStock" json:"inStock"`
	IsFeatured      *bool    `form:"isFeatured" json:"isFeatured"`
}
