package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/account/outbound/store"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
)

// ErrEmailRegistered is returned when the email already has an account.
var ErrEmailRegistered = goerror.NewBusiness("Email already registered", goerror.CodeConflict)

// SignupInput is a sign-up request. It is validated again after
// normalization, so callers outside the action pipeline get the same rules.
type SignupInput struct {
	Kind     entity.AccountKind `validate:"required,oneof=personal business"`
	Email    string             `validate:"required,email"`
	FullName string             `validate:"required,min=5,max=100,alphaspace"`
	Company  string             `validate:"required_if=Kind business,max=100"`
	TaxID    string             `validate:"required_if=Kind business,omitempty,alphanum,min=5,max=20"`
}

type SignupOutput struct {
	AccountID string
}

func (s *Usecase) Signup(ctx context.Context, in SignupInput) (*SignupOutput, error) {
	ctx, span := s.startSpan(ctx, "Signup")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.Company = strings.TrimSpace(in.Company)
	in.TaxID = strings.TrimSpace(in.TaxID)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	_, err := s.repoStore.GetAccountByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrEmailRegistered
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	acc := entity.Account{
		ID:        s.uuid.Generate(),
		Kind:      in.Kind,
		Email:     in.Email,
		FullName:  in.FullName,
		Company:   in.Company,
		TaxID:     in.TaxID,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repoStore.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, ErrEmailRegistered
		}
		slog.ErrorContext(ctx, "failed to repo create account", "email", acc.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "account created", "account_id", acc.ID, "kind", acc.Kind)

	return &SignupOutput{AccountID: acc.ID}, nil
}
