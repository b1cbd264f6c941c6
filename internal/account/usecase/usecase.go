package usecase

import (
	"context"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
	"github.com/shandysiswandi/formgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoStore interface {
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	CreateAccount(ctx context.Context, acc entity.Account) error
}

type Usecase struct {
	repoStore repoStore
	validator validator.Validator
	uuid      uid.StringID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoStore  repoStore
	Validator  validator.Validator
	UUID       uid.StringID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoStore: dep.RepoStore,
		validator: dep.Validator,
		uuid:      dep.UUID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}
