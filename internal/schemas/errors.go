package schemas

import "net/http"

// CustomError is an error that can be rendered to the client.
// Code is stable and can be used by clients to branch on the error kind.
type CustomError struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	HttpStatus int    `json:"-"`
}

func (e *CustomError) Error() string {
	return e.Code + ": " + e.Message
}

// WithMessage returns a copy of the error carrying another message.
func (e *CustomError) WithMessage(message string) *CustomError {
	c := *e
	c.Message = message
	return &c
}

// General errors
var (
	BadRequest = &CustomError{
		Message:    "The request body is invalid. Please check the request body and try again.",
		Code:       "ERR-001",
		HttpStatus: http.StatusBadRequest,
	}
	MissingFields = &CustomError{
		Message:    "Please fill in all fields",
		Code:       "ERR-002",
		HttpStatus: http.StatusBadRequest,
	}
	InvalidID = &CustomError{
		Message:    "Invalid ID",
		Code:       "ERR-003",
		HttpStatus: http.StatusBadRequest,
	}
	DatabaseError = &CustomError{
		Message:    "A database error occurred while processing the request.",
		Code:       "ERR-004",
		HttpStatus: http.StatusInternalServerError,
	}
	InternalServerError = &CustomError{
		Message:    "An internal server error occurred. Please try again later.",
		Code:       "ERR-005",
		HttpStatus: http.StatusInternalServerError,
	}
	TooManyRequests = &CustomError{
		Message:    "Too many requests. Please try again later.",
		Code:       "ERR-006",
		HttpStatus: http.StatusTooManyRequests,
	}
)

// User errors
var (
	UserAlreadyExists = &CustomError{
		Message:    "User already exists",
		Code:       "ERR-101",
		HttpStatus: http.StatusBadRequest,
	}
	PasswordMismatch = &CustomError{
		Message:    "Passwords do not match",
		Code:       "ERR-102",
		HttpStatus: http.StatusBadRequest,
	}
	PasswordTooShort = &CustomError{
		Message:    "Password must be at least 6 characters",
		Code:       "ERR-103",
		HttpStatus: http.StatusBadRequest,
	}
	EmailInvalid = &CustomError{
		Message:    "Please enter a valid email",
		Code:       "ERR-104",
		HttpStatus: http.StatusBadRequest,
	}
	EmailUnreachable = &CustomError{
		Message:    "The email domain cannot receive mail",
		Code:       "ERR-105",
		HttpStatus: http.StatusBadRequest,
	}
	UserNotFound = &CustomError{
		Message:    "User not found",
		Code:       "ERR-106",
		HttpStatus: http.StatusNotFound,
	}
	UserNotFoundBadRequest = &CustomError{
		Message:    "User not found",
		Code:       "ERR-106",
		HttpStatus: http.StatusBadRequest,
	}
	InvalidPassword = &CustomError{
		Message:    "Invalid password",
		Code:       "ERR-107",
		HttpStatus: http.StatusUnauthorized,
	}
	UserNotVerified = &CustomError{
		Message:    "Please verify your email. A verification link has been sent to your inbox.",
		Code:       "ERR-108",
		HttpStatus: http.StatusForbidden,
	}
	InvalidCredentials = &CustomError{
		Message:    "invalid credentials",
		Code:       "ERR-109",
		HttpStatus: http.StatusBadRequest,
	}
	InvalidToken = &CustomError{
		Message:    "Invalid or expired token",
		Code:       "ERR-110",
		HttpStatus: http.StatusBadRequest,
	}
	TokenAlreadyIssued = &CustomError{
		Message:    "A link has already been sent to your email. Please check your inbox.",
		Code:       "ERR-111",
		HttpStatus: http.StatusBadRequest,
	}
	ResetTooSoon = &CustomError{
		Message:    "Please wait 15 minutes before requesting another password reset.",
		Code:       "ERR-112",
		HttpStatus: http.StatusTooManyRequests,
	}
	Unauthorized = &CustomError{
		Message:    "Unauthorized. Log in to continue",
		Code:       "ERR-113",
		HttpStatus: http.StatusUnauthorized,
	}
	AlreadyLoggedIn = &CustomError{
		Message:    "You are already logged in. You need to be a guest.",
		Code:       "ERR-114",
		HttpStatus: http.StatusBadRequest,
	}
	ResetNotGranted = &CustomError{
		Message:    "Password reset link not verified. Please open the link from your email again.",
		Code:       "ERR-115",
		HttpStatus: http.StatusUnauthorized,
	}
	MailError = &CustomError{
		Message:    "The email could not be sent. Please try again later.",
		Code:       "ERR-116",
		HttpStatus: http.StatusInternalServerError,
	}
)

// Category errors
var (
	CategoryAlreadyExists = &CustomError{
		Message:    "Category already exists",
		Code:       "ERR-201",
		HttpStatus: http.StatusBadRequest,
	}
	CategoryNotFound = &CustomError{
		Message:    "Category not found",
		Code:       "ERR-202",
		HttpStatus: http.StatusNotFound,
	}
	NoCategoriesFound = &CustomError{
		Message:    "No categories found",
		Code:       "ERR-203",
		HttpStatus: http.StatusNotFound,
	}
)

// Product errors
var (
	ProductAlreadyExists = &CustomError{
		Message:    "Product already exists",
		Code:       "ERR-301",
		HttpStatus: http.StatusBadRequest,
	}
	ProductNotFound = &CustomError{
		Message:    "Product not found",
		Code:       "ERR-302",
		HttpStatus: http.StatusNotFound,
	}
	NoProductsFound = &CustomError{
		Message:    "Sorry, no product found.",
		Code:       "ERR-303",
		HttpStatus: http.StatusNotFound,
	}
	ImagesRequired = &CustomError{
		Message:    "Please upload at least one image",
		Code:       "ERR-304",
		HttpStatus: http.StatusBadRequest,
	}
	TooManyImages = &CustomError{
		Message:    "You can upload at most 4 images",
		Code:       "ERR-305",
		HttpStatus: http.StatusBadRequest,
	}
	ImageUploadFailed = &CustomError{
		Message:    "Image upload failed",
		Code:       "ERR-306",
		HttpStatus: http.StatusInternalServerError,
	}
	ImageDeleteFailed = &CustomError{
		Message:    "Image deletion failed",
		Code:       "ERR-307",
		HttpStatus: http.StatusInternalServerError,
	}
	InvalidImage = &CustomError{
		Message:    "Only image files are allowed",
		Code:       "ERR-308",
		HttpStatus: http.StatusBadRequest,
	}
)
