package action

import (
	"context"
	"net/http"
)

// Stage is a step of the action lifecycle.
type Stage int

// Lifecycle stages in execution order.
const (
	ActionResolution Stage = iota + 1
	HandlerResolution
	BindingAndValidation
	CustomValidation
	EventHandling
	ResolutionExecution
)

var stageNames = map[Stage]string{
	ActionResolution:     "ActionResolution",
	HandlerResolution:    "HandlerResolution",
	BindingAndValidation: "BindingAndValidation",
	CustomValidation:     "CustomValidation",
	EventHandling:        "EventHandling",
	ResolutionExecution:  "ResolutionExecution",
}

// String returns the stage name.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Interceptor wraps one or more lifecycle stages.
//
// Intercept must call ExecutionContext.Proceed exactly once to run the stage,
// unless it decides to short-circuit with its own Outcome.
type Interceptor interface {
	Stages() []Stage
	Intercept(ec *ExecutionContext) (Outcome, error)
}

type interceptorFunc struct {
	stages []Stage
	fn     func(ec *ExecutionContext) (Outcome, error)
}

func (i interceptorFunc) Stages() []Stage { return i.stages }

func (i interceptorFunc) Intercept(ec *ExecutionContext) (Outcome, error) { return i.fn(ec) }

// InterceptorFunc adapts fn into an Interceptor of the given stages.
func InterceptorFunc(fn func(ec *ExecutionContext) (Outcome, error), stages ...Stage) Interceptor {
	return interceptorFunc{stages: stages, fn: fn}
}

// SelfValidator is implemented by actions that run their own checks after
// constraint validation. Problems are reported through c.Errors().
type SelfValidator interface {
	ValidateAction(c *Context)
}

// ExecutionContext is what interceptors see of the request being dispatched.
type ExecutionContext struct {
	stage   Stage
	binding Binding
	actx    *Context
	action  any
	handler *Handler
	outcome Outcome
	writer  http.ResponseWriter

	chain []Interceptor
	pos   int
	core  func(ec *ExecutionContext) (Outcome, error)
}

// NewExecutionContext prepares a context for running a single stage outside
// a Dispatcher. core is the stage body run once the interceptors proceed.
func NewExecutionContext(
	stage Stage,
	actx *Context,
	act any,
	h *Handler,
	core func(ec *ExecutionContext) (Outcome, error),
	chain ...Interceptor,
) *ExecutionContext {
	return &ExecutionContext{
		stage:   stage,
		actx:    actx,
		action:  act,
		handler: h,
		chain:   chain,
		core:    core,
	}
}

// Proceed runs the next interceptor of the stage, or the stage itself.
func (ec *ExecutionContext) Proceed() (Outcome, error) {
	if ec.pos < len(ec.chain) {
		next := ec.chain[ec.pos]
		ec.pos++
		return next.Intercept(ec)
	}
	if ec.core == nil {
		return nil, nil
	}
	return ec.core(ec)
}

// Context returns the request context.
func (ec *ExecutionContext) Context() context.Context {
	return ec.actx.Ctx()
}

// Stage returns the stage being executed.
func (ec *ExecutionContext) Stage() Stage {
	return ec.stage
}

// Binding returns the binding being dispatched, nil outside a Dispatcher.
func (ec *ExecutionContext) Binding() Binding {
	return ec.binding
}

// ActionContext returns the request-scoped action context.
func (ec *ExecutionContext) ActionContext() *Context {
	return ec.actx
}

// Action returns the action value, nil before ActionResolution completes.
func (ec *ExecutionContext) Action() any {
	return ec.action
}

// Handler returns the resolved handler, nil when none applies.
func (ec *ExecutionContext) Handler() *Handler {
	return ec.handler
}

// Outcome returns the outcome about to be executed during ResolutionExecution.
func (ec *ExecutionContext) Outcome() Outcome {
	return ec.outcome
}
