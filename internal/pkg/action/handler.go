package action

import (
	"fmt"
	"slices"
	"strings"
)

// HandlerConfig is the validation metadata of a handler, fixed at registration.
type HandlerConfig struct {
	// SkipValidation disables constraint validation for the handler.
	SkipValidation bool
	// Groups lists the validation groups applied after the default group, in order.
	Groups []string
	// Methods restricts the HTTP methods that may trigger the handler; empty allows any.
	Methods []string
}

// HandlerOption configures a handler at registration.
type HandlerOption func(*HandlerConfig)

// SkipValidation marks the handler so no validation runs before it.
func SkipValidation() HandlerOption {
	return func(c *HandlerConfig) {
		c.SkipValidation = true
	}
}

// Groups appends validation groups to the handler.
func Groups(groups ...string) HandlerOption {
	return func(c *HandlerConfig) {
		c.Groups = append(c.Groups, groups...)
	}
}

// Methods restricts the handler to the given HTTP methods.
func Methods(methods ...string) HandlerOption {
	return func(c *HandlerConfig) {
		for _, m := range methods {
			c.Methods = append(c.Methods, strings.ToUpper(m))
		}
	}
}

// Handler is one event of an action.
type Handler struct {
	event  string
	config HandlerConfig
	invoke func(c *Context, act any) (Outcome, error)
}

// On registers fn as the handler of event for actions of type T.
func On[T any](event string, fn func(c *Context, act *T) (Outcome, error), opts ...HandlerOption) *Handler {
	var cfg HandlerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Handler{
		event:  event,
		config: cfg,
		invoke: func(c *Context, act any) (Outcome, error) {
			typed, ok := act.(*T)
			if !ok {
				return nil, fmt.Errorf("action: handler %q expects %T, got %T", event, (*T)(nil), act)
			}
			return fn(c, typed)
		},
	}
}

// Event returns the event name.
func (h *Handler) Event() string {
	return h.event
}

// Config returns a copy of the handler's validation metadata.
func (h *Handler) Config() HandlerConfig {
	return HandlerConfig{
		SkipValidation: h.config.SkipValidation,
		Groups:         slices.Clone(h.config.Groups),
		Methods:        slices.Clone(h.config.Methods),
	}
}

// Allows reports whether method may trigger the handler.
func (h *Handler) Allows(method string) bool {
	return len(h.config.Methods) == 0 || slices.Contains(h.config.Methods, method)
}

// Binding describes an action type and its handlers.
type Binding interface {
	// Name identifies the action in logs and errors.
	Name() string
	// SourcePage is the page used when the request does not name one.
	SourcePage() string
	// NewAction returns a fresh pointer to the action value.
	NewAction() any
	// Handler returns the handler of event, nil when unknown.
	Handler(event string) *Handler
	// DefaultHandler returns the handler used when no event is given, may be nil.
	DefaultHandler() *Handler
	// Handlers returns every handler in registration order.
	Handlers() []*Handler
}

// ActionBinding is the Binding of actions of type T.
type ActionBinding[T any] struct {
	name       string
	sourcePage string
	handlers   map[string]*Handler
	order      []*Handler
}

// Bind declares an action type. The first handler is the default one.
// It panics on duplicate events, like route registration does.
func Bind[T any](name, sourcePage string, handlers ...*Handler) *ActionBinding[T] {
	b := &ActionBinding[T]{
		name:       name,
		sourcePage: sourcePage,
		handlers:   make(map[string]*Handler, len(handlers)),
	}

	for _, h := range handlers {
		if _, dup := b.handlers[h.event]; dup {
			panic(fmt.Sprintf("action: duplicate event %q on %s", h.event, name))
		}
		b.handlers[h.event] = h
		b.order = append(b.order, h)
	}

	return b
}

// Name returns the action name.
func (b *ActionBinding[T]) Name() string {
	return b.name
}

// SourcePage returns the default source page.
func (b *ActionBinding[T]) SourcePage() string {
	return b.sourcePage
}

// NewAction returns a new *T.
func (b *ActionBinding[T]) NewAction() any {
	return new(T)
}

// Handler returns the handler of event.
func (b *ActionBinding[T]) Handler(event string) *Handler {
	return b.handlers[event]
}

// DefaultHandler returns the first registered handler.
func (b *ActionBinding[T]) DefaultHandler() *Handler {
	if len(b.order) == 0 {
		return nil
	}
	return b.order[0]
}

// Handlers returns every handler in registration order.
func (b *ActionBinding[T]) Handlers() []*Handler {
	return slices.Clone(b.order)
}
