package utils

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/truemail-rb/truemail-go"

	"gadget-server/internal/schemas"
)

type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool
	policy      *bluemonday.Policy
}

var (
	instance      *Validator
	configuration *truemail.Configuration
	once          sync.Once
)

func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "verifier@gadget-server.dev",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: validateEmail,
			policy:      bluemonday.StrictPolicy(),
		}
	})

	return instance
}

func validateEmail(email string) bool {
	if configuration == nil {
		return true
	}
	return truemail.IsValid(email, configuration)
}

// SanitizeData strips markup from every string field of the struct obj points to
// and trims the surrounding whitespace. Fields tagged sanitize:"-" are kept as they are.
func (v *Validator) SanitizeData(obj interface{}) error {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return errors.New("sanitize: expected a pointer to a struct")
	}

	elem := value.Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		if elem.Type().Field(i).Tag.Get("sanitize") == "-" || !field.CanSet() {
			continue
		}

		switch {
		case field.Kind() == reflect.String:
			field.SetString(v.sanitize(field.String()))
		case field.Kind() == reflect.Ptr && !field.IsNil() && field.Elem().Kind() == reflect.String:
			field.Elem().SetString(v.sanitize(field.Elem().String()))
		}
	}
	return nil
}

func (v *Validator) sanitize(s string) string {
	return strings.TrimSpace(v.policy.Sanitize(s))
}

// ValidationError maps the first failing rule of err onto the error shown to the client.
func ValidationError(err error) *schemas.CustomError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return schemas.BadRequest
	}

	fieldErr := validationErrors[0]
	switch fieldErr.Tag() {
	case "required":
		return schemas.MissingFields
	case "eqfield":
		return schemas.PasswordMismatch
	case "email":
		return schemas.EmailInvalid
	case "min":
		if fieldErr.Field() == "Password" {
			return schemas.PasswordTooShort
		}
	}
	return schemas.BadRequest.WithMessage("Invalid value for field " + fieldErr.Field())
}
