package inbound

import "github.com/shandysiswandi/formgate/internal/pkg/action"

// SignupAction is bound from the sign-up form. Email and password are checked
// on every validated event; the other groups are opted into per event.
type SignupAction struct {
	Email    string  `form:"email" validate:"required,email"`
	Password string  `form:"password" validate:"required,password"`
	FullName string  `form:"full_name" validate_registration:"required,min=5,max=100,alphaspace"`
	Company  string  `form:"company" validate_business:"required,max=100"`
	TaxID    *string `form:"tax_id" validate_business:"required,alphanum,min=5,max=20"`
}

// SignupForm is the form model echoed back by the view event. The password is never echoed.
type SignupForm struct {
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Company  string  `json:"company"`
	TaxID    *string `json:"tax_id"`
}

type SignupView struct {
	Form   SignupForm          `json:"form"`
	Errors []action.FieldError `json:"errors"`
}
