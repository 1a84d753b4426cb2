package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadget-server/internal/schemas"
)

func TestSanitizeData(t *testing.T) {
	name := "  <b>Phone</b> & Co "
	req := &schemas.UpdateProductRequest{Name: &name}
	require.NoError(t, GetValidator().SanitizeData(req))
	assert.Equal(t, "Phone &amp; Co", *req.Name)

	encoded := "&lt;script&gt;alert(1)&lt;/script&gt;"
	req = &schemas.UpdateProductRequest{Name: &encoded}
	require.NoError(t, GetValidator().SanitizeData(req))
	assert.NotContains(t, *req.Name, "<")
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", *req.Name)

	register := &schemas.RegistrationRequest{
		Name:     "<script>alert(1)</script>Ada",
		Password: " <secret> ",
	}
	require.NoError(t, GetValidator().SanitizeData(register))
	assert.Equal(t, "Ada", register.Name)
	assert.Equal(t, " <secret> ", register.Password)
}

func TestSanitizeDataRejectsNonStruct(t *testing.T) {
	assert.Error(t, GetValidator().SanitizeData("plain"))
}

func TestValidationError(t *testing.T) {
	v := GetValidator().Validate

	cases := []struct {
		name string
		req  schemas.RegistrationRequest
		want *schemas.CustomError
	}{
		{
			name: "missing field",
			req:  schemas.RegistrationRequest{Email: "ada@example.com", Password: "secret", ConfirmPassword: "secret"},
			want: schemas.MissingFields,
		},
		{
			name: "mismatched confirmation",
			req:  schemas.RegistrationRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret2", Address: "Main St"},
			want: schemas.PasswordMismatch,
		},
		{
			name: "short password",
			req:  schemas.RegistrationRequest{Name: "Ada", Email: "ada@example.com", Password: "abc", ConfirmPassword: "abc", Address: "Main St"},
			want: schemas.PasswordTooShort,
		},
		{
			name: "invalid email",
			req:  schemas.RegistrationRequest{Name: "Ada", Email: "ada@", Password: "secret", ConfirmPassword: "secret", Address: "Main St"},
			want: schemas.EmailInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.want, ValidationError(err))
		})
	}
}
