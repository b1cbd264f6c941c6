package account

import (
	"github.com/shandysiswandi/formgate/internal/account/inbound"
	"github.com/shandysiswandi/formgate/internal/account/outbound/store"
	"github.com/shandysiswandi/formgate/internal/account/usecase"
	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/router"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
	"github.com/shandysiswandi/formgate/internal/pkg/validator"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoStore:  store.NewMemory(),
		Validator:  dep.Validator,
		UUID:       dep.UUID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterActionEndpoint(dep.Router, uc)
	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
