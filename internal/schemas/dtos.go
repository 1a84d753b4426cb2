package schemas

// ErrorDTO is a struct that represents an error response
// Message is the human readable message of the error
// Code is the stable error code, see CustomError
// Stack is the stack trace of the underlying error, only set outside production
type ErrorDTO struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Stack   string `json:"stack,omitempty"`
}

// MessageDTO is a struct that represents a response without payload
type MessageDTO struct {
	Message string `json:"message"`
}

// UserDTO is a struct that represents a user response
// ID is the identifier of the user
// Name is the name of the user
// Email is the email of the user
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginDTO is a struct that represents a successful login response
type LoginDTO struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// CategoryDTO is a struct that represents a single category response
type CategoryDTO struct {
	Message  string    `json:"message"`
	Category *Category `json:"category"`
}

// CategoriesDTO is a struct that represents a category list response
// Count is the total number of categories
type CategoriesDTO struct {
	Message    string     `json:"message"`
	Count      int64      `json:"count"`
	Categories []Category `json:"categories"`
}

// ProductDTO is a struct that represents the result of a product mutation
type ProductDTO struct {
	Message string   `json:"message"`
	Data    *Product `json:"data"`
}

// SingleProductDTO is a struct that represents a product lookup response
type SingleProductDTO struct {
	Message string   `json:"message"`
	Product *Product `json:"product"`
}

// ProductListDTO is a struct that represents a paginated product list
// Page and Limit echo the pagination that was applied
// TotalPages is ceil(TotalCount / Limit)
// TotalCount is the number of products matching the filter
type ProductListDTO struct {
	Message    string    `json:"message"`
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
	TotalCount int64     `json:"totalCount"`
}

// MetadataDTO describes the running service
type MetadataDTO struct {
	ApiVersion  string `json:"apiVersion"`
	ApiName     string `json:"apiName"`
	Environment string `json:"environment"`
}
