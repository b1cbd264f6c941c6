package action

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
)

var lifecycle = []Stage{
	ActionResolution,
	HandlerResolution,
	BindingAndValidation,
	CustomValidation,
	EventHandling,
}

// DispatcherConfig holds dependencies required to build a Dispatcher.
type DispatcherConfig struct {
	// Interceptors are attached to every stage they declare, in slice order.
	Interceptors []Interceptor
	// Binder populates actions; NewBinder() when nil.
	Binder *Binder
	// Flash keeps errors across source page redirects; optional.
	Flash FlashStore
	// SourcePageMode selects how the source page outcome answers.
	SourcePageMode SourcePageMode
}

// Dispatcher runs requests through the action lifecycle.
type Dispatcher struct {
	chains map[Stage][]Interceptor
	binder *Binder
	flash  FlashStore
	mode   SourcePageMode
}

// NewDispatcher builds a Dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		chains: make(map[Stage][]Interceptor),
		binder: cfg.Binder,
		flash:  cfg.Flash,
		mode:   cfg.SourcePageMode,
	}
	if d.binder == nil {
		d.binder = NewBinder()
	}
	if d.mode == "" {
		d.mode = SourcePageRender
	}

	for _, in := range cfg.Interceptors {
		for _, stage := range in.Stages() {
			d.chains[stage] = append(d.chains[stage], in)
		}
	}

	return d
}

// Dispatch resolves, binds, validates and handles one request for b, then
// executes the resulting outcome. Returned errors have not been written to w.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request, b Binding) error {
	ec := &ExecutionContext{
		binding: b,
		actx:    newContext(r, b.SourcePage(), d.sourcePageOutcome),
		writer:  w,
	}

	slog.DebugContext(r.Context(), "dispatching action", "action", b.Name(), "source_page", ec.actx.SourcePage())

	for _, stage := range lifecycle {
		outcome, err := d.run(ec, stage)
		if err != nil {
			return err
		}
		if outcome != nil {
			ec.outcome = outcome
			break
		}
	}

	if ec.outcome == nil {
		ec.outcome = NoContent{}
	}

	_, err := d.run(ec, ResolutionExecution)
	return err
}

func (d *Dispatcher) run(ec *ExecutionContext, stage Stage) (Outcome, error) {
	ec.stage = stage
	ec.chain = d.chains[stage]
	ec.pos = 0
	ec.core = d.core(stage)

	return ec.Proceed()
}

func (d *Dispatcher) core(stage Stage) func(ec *ExecutionContext) (Outcome, error) {
	switch stage {
	case ActionResolution:
		return d.resolveAction
	case HandlerResolution:
		return d.resolveHandler
	case BindingAndValidation:
		return d.bind
	case CustomValidation:
		return d.customValidation
	case EventHandling:
		return d.handleEvent
	case ResolutionExecution:
		return d.execute
	default:
		return nil
	}
}

func (d *Dispatcher) resolveAction(ec *ExecutionContext) (Outcome, error) {
	ec.action = ec.binding.NewAction()

	r := ec.actx.Request()
	id := r.URL.Query().Get(ParamFlash)
	if id == "" || d.flash == nil {
		return nil, nil
	}

	errs, err := d.flash.Take(r.Context(), id)
	if err != nil {
		slog.DebugContext(r.Context(), "flash errors not restored", "flash_id", id, "error", err)
		return nil, nil
	}
	ec.actx.Errors().Add(errs...)

	return nil, nil
}

func (d *Dispatcher) resolveHandler(ec *ExecutionContext) (Outcome, error) {
	r := ec.actx.Request()

	event := r.URL.Query().Get(ParamEvent)
	if event == "" {
		event = r.PostFormValue(ParamEvent)
	}

	if event == "" {
		ec.handler = ec.binding.DefaultHandler()
	} else {
		ec.handler = ec.binding.Handler(event)
		if ec.handler == nil {
			return nil, goerror.NewBusiness(fmt.Sprintf("Unknown event %q", event), goerror.CodeNotFound)
		}
	}

	if ec.handler == nil {
		return nil, nil
	}

	if !ec.handler.Allows(r.Method) {
		return nil, goerror.NewBusiness(
			fmt.Sprintf("Event %q does not accept %s", ec.handler.Event(), r.Method),
			goerror.CodeMethodNotAllowed,
		)
	}
	ec.actx.event = ec.handler.Event()

	return nil, nil
}

func (d *Dispatcher) bind(ec *ExecutionContext) (Outcome, error) {
	return nil, d.binder.Bind(ec.actx.Request(), ec.action, ec.actx.Errors())
}

func (d *Dispatcher) customValidation(ec *ExecutionContext) (Outcome, error) {
	if ec.handler == nil || ec.handler.config.SkipValidation {
		return nil, nil
	}

	sv, ok := ec.action.(SelfValidator)
	if !ok {
		return nil, nil
	}

	sv.ValidateAction(ec.actx)
	if !ec.actx.Errors().IsEmpty() {
		return ec.actx.SourcePageOutcome(), nil
	}

	return nil, nil
}

func (d *Dispatcher) handleEvent(ec *ExecutionContext) (Outcome, error) {
	if ec.handler == nil {
		return nil, goerror.NewBusiness(fmt.Sprintf("No handler for %s", ec.binding.Name()), goerror.CodeNotFound)
	}

	outcome, err := ec.handler.invoke(ec.actx, ec.action)
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		outcome = NoContent{}
	}

	return outcome, nil
}

func (d *Dispatcher) execute(ec *ExecutionContext) (Outcome, error) {
	return ec.outcome, ec.outcome.Execute(ec.writer, ec.actx.Request())
}

func (d *Dispatcher) sourcePageOutcome(c *Context) Outcome {
	return &SourcePage{
		Path:   c.SourcePage(),
		Errors: c.Errors(),
		Mode:   d.mode,
		Flash:  d.flash,
	}
}
