package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string  `form:"email" validate:"required,email"`
	Password string  `form:"password" validate:"required,password"`
	Company  string  `form:"company" validate_business:"required"`
	TaxID    *string `validate_business:"required"`
	Nickname string  `json:"nick" validate:"omitempty,min=3"`
}

func newTestValidator(t *testing.T, opts ...V10Option) *V10Validator {
	t.Helper()

	v, err := NewV10Validator(opts...)
	require.NoError(t, err)
	return v
}

func TestV10Validator_ValidateGroups_DefaultGroupOnly(t *testing.T) {
	// Arrange
	v := newTestValidator(t)
	form := &signupForm{Email: "not-an-email", Password: "secret-password"}

	// Act
	violations, err := v.ValidateGroups(context.Background(), form, []string{DefaultGroup})

	// Assert
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "email", violations[0].Path)
	assert.Equal(t, "email", violations[0].Tag)
	assert.Equal(t, DefaultGroup, violations[0].Group)
	assert.Equal(t, "not-an-email", violations[0].InvalidValue)
	assert.Equal(t, "email must be a valid email address", violations[0].Message)
}

func TestV10Validator_ValidateGroups_EmptyListMeansDefault(t *testing.T) {
	v := newTestValidator(t)

	violations, err := v.ValidateGroups(context.Background(), &signupForm{}, nil)

	require.NoError(t, err)
	paths := make([]string, 0, len(violations))
	for _, vi := range violations {
		paths = append(paths, vi.Path)
	}
	assert.Equal(t, []string{"email", "password"}, paths)
}

func TestV10Validator_ValidateGroups_AdditionalGroupInOrder(t *testing.T) {
	// Arrange
	v := newTestValidator(t)
	form := &signupForm{Email: "jane@example.com", Password: "short"}

	// Act
	violations, err := v.ValidateGroups(context.Background(), form, []string{DefaultGroup, "business"})

	// Assert
	require.NoError(t, err)
	require.Len(t, violations, 3)

	assert.Equal(t, "password", violations[0].Path)
	assert.Equal(t, DefaultGroup, violations[0].Group)
	assert.Equal(t, "password must be 8-72 characters", violations[0].Message)

	assert.Equal(t, "company", violations[1].Path)
	assert.Equal(t, "business", violations[1].Group)
	assert.Equal(t, "", violations[1].InvalidValue)

	assert.Equal(t, "tax_id", violations[2].Path)
	assert.Equal(t, "business", violations[2].Group)
	assert.Nil(t, violations[2].InvalidValue, "nil pointer must not be echoed")
}

func TestV10Validator_ValidateGroups_NoViolations(t *testing.T) {
	v := newTestValidator(t)
	taxID := "TX-1"
	form := signupForm{Email: "jane@example.com", Password: "secret-password", Company: "ACME", TaxID: &taxID}

	violations, err := v.ValidateGroups(context.Background(), form, []string{DefaultGroup, "business"})

	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestV10Validator_ValidateGroups_JSONTagFallback(t *testing.T) {
	v := newTestValidator(t)
	form := &signupForm{Email: "jane@example.com", Password: "secret-password", Nickname: "jo"}

	violations, err := v.ValidateGroups(context.Background(), form, nil)

	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "nick", violations[0].Path)
	assert.Equal(t, "jo", violations[0].InvalidValue)
}

func TestV10Validator_ValidateGroups_NestedPath(t *testing.T) {
	type address struct {
		City string `form:"city" validate:"required"`
	}
	type order struct {
		Address address `form:"address"`
	}

	v := newTestValidator(t)

	violations, err := v.ValidateGroups(context.Background(), &order{}, nil)

	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "address.city", violations[0].Path)
}

func TestV10Validator_ValidateGroups_InvalidTarget(t *testing.T) {
	v := newTestValidator(t)
	var nilForm *signupForm

	tests := []struct {
		name string
		data any
	}{
		{name: "nil", data: nil},
		{name: "nil pointer", data: nilForm},
		{name: "string", data: "hello"},
		{name: "slice", data: []signupForm{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations, err := v.ValidateGroups(context.Background(), tt.data, nil)

			assert.ErrorIs(t, err, ErrInvalidTarget)
			assert.Nil(t, violations)
		})
	}
}

func TestV10Validator_ValidateGroups_InvalidGroupName(t *testing.T) {
	v := newTestValidator(t)

	violations, err := v.ValidateGroups(context.Background(), &signupForm{}, []string{DefaultGroup, "Bad Group"})

	assert.ErrorIs(t, err, ErrInvalidGroup)
	assert.Nil(t, violations)
}

func TestNewV10Validator_PreloadInvalidGroup(t *testing.T) {
	v, err := NewV10Validator(WithGroups("registration", "-nope"))

	assert.ErrorIs(t, err, ErrInvalidGroup)
	assert.Nil(t, v)
}

func TestV10Validator_TagName(t *testing.T) {
	v := newTestValidator(t, WithTagPrefix("check"))

	tag, err := v.TagName(DefaultGroup)
	require.NoError(t, err)
	assert.Equal(t, "check", tag)

	tag, err = v.TagName("business")
	require.NoError(t, err)
	assert.Equal(t, "check_business", tag)
}

func TestV10Validator_Validate(t *testing.T) {
	v := newTestValidator(t)

	err := v.Validate(signupForm{Email: "nope"})

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email must be a valid email address", verr.Values()["email"])
	assert.Equal(t, "password is a required field", verr.Values()["password"])
	assert.NoError(t, v.Validate(signupForm{Email: "a@b.co", Password: "secret-password"}))
}

func TestV10Validator_ConcurrentGroups(t *testing.T) {
	v := newTestValidator(t)
	form := &signupForm{}

	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			_, err := v.ValidateGroups(context.Background(), form, []string{DefaultGroup, "business"})
			assert.NoError(t, err)
		}()
	}
	for range 8 {
		<-done
	}
}

func TestV10Validator_ValidateGroups_CustomAlphaspaceMessage(t *testing.T) {
	// Arrange
	type profile struct {
		FullName string `form:"full_name" validate_registration:"required,alphaspace"`
	}
	v := newTestValidator(t, WithGroups("registration"))

	// Act
	violations, err := v.ValidateGroups(context.Background(), &profile{FullName: "Jane 42 Doe"}, []string{DefaultGroup, "registration"})

	// Assert
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "full_name", violations[0].Path)
	assert.Equal(t, "alphaspace", violations[0].Tag)
	assert.Equal(t, "full_name can contain only letters and spaces", violations[0].Message)
}
