package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
}

func validSignup() signupForm {
	return signupForm{Username: "alice", Email: "alice@example.com", Password: "hunter2"}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	return valErr.Fields()
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(validSignup()))
}

func TestValidate_ReportsWireNames(t *testing.T) {
	fields := fieldsOf(t, Validate(signupForm{}))
	assert.Equal(t, "is required", fields["username"])
	assert.Equal(t, "is required", fields["email"])
	assert.Equal(t, "is required", fields["password"])

	fields = fieldsOf(t, Validate(loginForm{}))
	assert.Contains(t, fields, "username")
}

func TestValidate_InvalidEmail(t *testing.T) {
	s := validSignup()
	s.Email = "not-an-email"
	assert.Equal(t, "must be a valid email address", fieldsOf(t, Validate(s))["email"])
}

func TestValidate_UsernameLength(t *testing.T) {
	s := validSignup()
	s.Username = "al"
	assert.Equal(t, "must be at least 3 characters", fieldsOf(t, Validate(s))["username"])

	s.Username = strings.Repeat("a", 51)
	assert.Equal(t, "must be at most 50 characters", fieldsOf(t, Validate(s))["username"])
}

func TestValidate_MaxBytesCountsBytesNotRunes(t *testing.T) {
	s := validSignup()
	s.Password = strings.Repeat("a", 72)
	assert.NoError(t, Validate(s))

	// 36 two-byte runes fit, 37 do not.
	s.Password = strings.Repeat("é", 36)
	assert.NoError(t, Validate(s))
	s.Password = strings.Repeat("é", 37)
	assert.Equal(t, "must be at most 72 bytes", fieldsOf(t, Validate(s))["password"])
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(signupForm{Username: "alice", Email: "bad", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "field 'email' must be a valid email address", err.Error())
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"username":"alice","email":"alice@example.com","password":"hunter2","extra":true}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst signupForm
	require.NoError(t, DecodeAndValidate(httptest.NewRecorder(), req, &dst))
	assert.Equal(t, "alice", dst.Username)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":`))

	var dst signupForm
	err := DecodeAndValidate(httptest.NewRecorder(), req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_BodyTooLarge(t *testing.T) {
	body := `{"username":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst signupForm
	err := DecodeAndValidate(httptest.NewRecorder(), req, &dst)
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, err, &maxErr)
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"al"}`))

	var dst signupForm
	fields := fieldsOf(t, DecodeAndValidate(httptest.NewRecorder(), req, &dst))
	assert.Len(t, fields, 3)
}
