package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrors_AddIsAdditive(t *testing.T) {
	// Arrange
	errs := NewValidationErrors()
	errs.Add(FieldError{Field: "email", Message: "email is a required field"})

	// Act
	errs.Add(
		FieldError{Field: "password", Message: "password must be 8-72 characters", Value: "short", HasValue: true},
		FieldError{Field: "email", Message: "email must be a valid email address", Value: "x", HasValue: true},
	)
	errs.AddGlobal("something went wrong")

	// Assert
	assert.Equal(t, 4, errs.Len())
	assert.False(t, errs.IsEmpty())
	assert.Equal(t, []string{"email", "password", GlobalField}, errs.Fields())
	assert.Len(t, errs.Get("email"), 2)
	assert.True(t, errs.Has("password"))
	assert.False(t, errs.Has("full_name"))
	assert.Equal(t, map[string]string{
		"email":     "email is a required field",
		"password":  "password must be 8-72 characters",
		GlobalField: "something went wrong",
	}, errs.Messages())
	assert.Equal(t, map[string]string{"email": "x", "password": "short"}, errs.Values())
}

func TestValidationErrors_EmptyFieldIsGlobal(t *testing.T) {
	var errs ValidationErrors

	errs.Add(FieldError{Message: "no field"})

	assert.Equal(t, []FieldError{{Field: GlobalField, Message: "no field"}}, errs.All())
}

func TestValidationErrors_EmptyEchoIsKept(t *testing.T) {
	errs := NewValidationErrors()

	errs.Add(FieldError{Field: "company", Message: "company is a required field", HasValue: true})

	assert.Equal(t, map[string]string{"company": ""}, errs.Values())
}
