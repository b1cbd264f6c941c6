package validationgate

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/samber/lo"
	"github.com/shandysiswandi/formgate/internal/pkg/action"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	resultSkip = "skip"
	resultPass = "pass"
	resultFail = "fail"
)

// ValidationOutcome is the result of validating one action.
type ValidationOutcome struct {
	// Errors holds one record per violation, in engine order.
	Errors []action.FieldError
	// OverrideResult reports whether the violations alone force the source page.
	OverrideResult bool
}

// Gate is the action.Interceptor running constraint validation after binding.
// It holds no per-request state and is safe for concurrent use.
type Gate struct {
	engine      validator.GroupValidator
	tracer      trace.Tracer
	evaluations instrument.Counter
	violations  instrument.Counter
}

// New builds a Gate around a shared engine.
func New(engine validator.GroupValidator, ins instrument.Instrumentation) *Gate {
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Gate{
		engine:      engine,
		tracer:      ins.Tracer("validationgate"),
		evaluations: instrument.NewCounter(ins, "validationgate", "validation.gate.evaluations", "Number of actions evaluated by the validation gate"),
		violations:  instrument.NewCounter(ins, "validationgate", "validation.gate.violations", "Number of constraint violations reported by the validation gate"),
	}
}

// Stages implements action.Interceptor.
func (g *Gate) Stages() []action.Stage {
	return []action.Stage{action.BindingAndValidation}
}

// Intercept implements action.Interceptor.
func (g *Gate) Intercept(ec *action.ExecutionContext) (action.Outcome, error) {
	outcome, err := ec.Proceed()
	if err != nil {
		return nil, err
	}

	h := ec.Handler()
	if !Applies(h) {
		slog.DebugContext(ec.Context(), "validation gate skipped", "event", eventName(h))
		g.record(ec.Context(), h, resultSkip, 0)
		return outcome, nil
	}

	res, err := g.Evaluate(ec.Context(), h, ec.Action())
	if err != nil {
		return nil, err
	}

	errs := ec.ActionContext().Errors()
	errs.Add(res.Errors...)

	if errs.IsEmpty() {
		return outcome, nil
	}

	slog.DebugContext(ec.Context(), "returning to source page",
		"event", h.Event(),
		"source_page", ec.ActionContext().SourcePage(),
		"errors", errs.Len(),
	)

	return ec.ActionContext().SourcePageOutcome(), nil
}

// Evaluate validates act for handler h without touching request state.
// A handler that does not apply yields the zero ValidationOutcome.
func (g *Gate) Evaluate(ctx context.Context, h *action.Handler, act any) (ValidationOutcome, error) {
	if !Applies(h) {
		return ValidationOutcome{}, nil
	}

	groups := Groups(h)

	ctx, span := g.tracer.Start(ctx, "validationgate.Evaluate", trace.WithAttributes(
		attribute.String("action.event", h.Event()),
		attribute.StringSlice("validation.groups", groups),
	))
	defer span.End()

	violations, err := g.engine.ValidateGroups(ctx, act, groups)
	if err != nil {
		instrument.FailSpan(span, err)
		slog.ErrorContext(ctx, "validation engine failed", "event", h.Event(), "groups", groups, "error", err)
		return ValidationOutcome{}, err
	}

	fieldErrs := lo.Map(violations, func(v validator.Violation, _ int) action.FieldError {
		return ToFieldError(v)
	})

	span.SetAttributes(attribute.Int("validation.violations", len(fieldErrs)))

	result := resultPass
	if len(fieldErrs) > 0 {
		result = resultFail
	}
	g.record(ctx, h, result, len(fieldErrs))

	slog.DebugContext(ctx, "validation gate evaluated", "event", h.Event(), "groups", groups, "violations", len(fieldErrs))

	return ValidationOutcome{
		Errors:         fieldErrs,
		OverrideResult: len(fieldErrs) > 0,
	}, nil
}

// Applies reports whether h should be validated.
func Applies(h *action.Handler) bool {
	return h != nil && !h.Config().SkipValidation
}

// Groups returns the default group followed by the groups declared on h, in
// declaration order and without duplicates.
func Groups(h *action.Handler) []string {
	groups := []string{validator.DefaultGroup}
	if h != nil {
		groups = append(groups, h.Config().Groups...)
	}
	return lo.Uniq(groups)
}

// ToFieldError maps a violation to the request's error record.
func ToFieldError(v validator.Violation) action.FieldError {
	fe := action.FieldError{Field: v.Path, Message: v.Message}
	if val, ok := echo(v.InvalidValue); ok {
		fe.Value = val
		fe.HasValue = true
	}
	return fe
}

func echo(val any) (string, bool) {
	if val == nil {
		return "", false
	}

	rv := reflect.ValueOf(val)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		if rv.IsNil() {
			return "", false
		}
	}

	if !rv.CanInterface() {
		return "", false
	}
	return fmt.Sprint(rv.Interface()), true
}

func (g *Gate) record(ctx context.Context, h *action.Handler, result string, violations int) {
	attrs := []attribute.KeyValue{
		attribute.String("action.event", eventName(h)),
		attribute.String("validation.result", result),
	}

	g.evaluations.Add(ctx, 1, attrs...)
	g.violations.Add(ctx, int64(violations), attrs...)
}

func eventName(h *action.Handler) string {
	if h == nil {
		return ""
	}
	return h.Event()
}
