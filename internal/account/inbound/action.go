package inbound

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"slices"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/account/usecase"
	"github.com/shandysiswandi/formgate/internal/pkg/action"
	"github.com/shandysiswandi/formgate/internal/pkg/router"
	"github.com/shandysiswandi/formgate/internal/pkg/validator"
)

const (
	PathSignup  = "/account/signup"
	PathWelcome = "/account/welcome"

	groupRegistration = "registration"
	groupBusiness     = "business"
)

type uc interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.SignupOutput, error)
}

// RegisterActionEndpoint serves the sign-up form on the router.
func RegisterActionEndpoint(r *router.Router, uc uc) {
	end := &ActionEndpoint{uc: uc}

	r.Action(PathSignup, action.Bind[SignupAction]("account.signup", PathSignup,
		action.On("view", end.View, action.SkipValidation()),
		action.On("submit", end.Submit,
			action.Groups(groupRegistration), action.Methods(http.MethodPost)),
		action.On("submit_business", end.SubmitBusiness,
			action.Groups(groupRegistration, groupBusiness), action.Methods(http.MethodPost)),
		action.On("cancel", end.Cancel, action.SkipValidation()),
	))
}

// ActionEndpoint handles the events of SignupAction.
type ActionEndpoint struct {
	uc uc
}

// View renders the form model with whatever errors the request carries,
// including the ones restored from a source page redirect.
func (h *ActionEndpoint) View(c *action.Context, act *SignupAction) (action.Outcome, error) {
	return action.JSON{Data: SignupView{
		Form: SignupForm{
			Email:    act.Email,
			FullName: act.FullName,
			Company:  act.Company,
			TaxID:    act.TaxID,
		},
		Errors: c.Errors().All(),
	}}, nil
}

// Submit registers a personal account.
func (h *ActionEndpoint) Submit(c *action.Context, act *SignupAction) (action.Outcome, error) {
	return h.signup(c, act, entity.AccountKindPersonal)
}

// SubmitBusiness registers a business account; company and tax id are required.
func (h *ActionEndpoint) SubmitBusiness(c *action.Context, act *SignupAction) (action.Outcome, error) {
	return h.signup(c, act, entity.AccountKindBusiness)
}

// Cancel leaves the form.
func (h *ActionEndpoint) Cancel(*action.Context, *SignupAction) (action.Outcome, error) {
	return action.Redirect{URL: "/"}, nil
}

func (h *ActionEndpoint) signup(c *action.Context, act *SignupAction, kind entity.AccountKind) (action.Outcome, error) {
	in := usecase.SignupInput{
		Kind:     kind,
		Email:    act.Email,
		FullName: act.FullName,
		Company:  act.Company,
	}
	if act.TaxID != nil {
		in.TaxID = *act.TaxID
	}

	out, err := h.uc.Signup(c.Ctx(), in)
	if errors.Is(err, usecase.ErrEmailRegistered) {
		c.Errors().Add(action.FieldError{
			Field:    "email",
			Message:  "email is already registered",
			Value:    act.Email,
			HasValue: true,
		})
		return c.SourcePageOutcome(), nil
	}

	// Rules checked after normalization, e.g. a name that is too short once trimmed.
	var verr validator.V10ValidationError
	if errors.As(err, &verr) {
		for _, field := range slices.Sorted(maps.Keys(verr)) {
			c.Errors().Add(action.FieldError{Field: field, Message: verr[field]})
		}
		return c.SourcePageOutcome(), nil
	}
	if err != nil {
		return nil, err
	}

	return action.Redirect{URL: PathWelcome + "?account_id=" + out.AccountID}, nil
}
