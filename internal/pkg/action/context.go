package action

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const (
	// ParamEvent selects the handler of the action.
	ParamEvent = "_event"
	// ParamSourcePage names the page that submitted the request.
	ParamSourcePage = "_source_page"
	// ParamFlash carries the id of errors stored before a redirect.
	ParamFlash = "_flash"
)

// Context is the request-scoped state handed to handlers and interceptors.
type Context struct {
	request    *http.Request
	event      string
	sourcePage string
	errors     *ValidationErrors
	sourceFn   func(*Context) Outcome
}

func newContext(r *http.Request, defaultSourcePage string, sourceFn func(*Context) Outcome) *Context {
	return &Context{
		request:    r,
		sourcePage: resolveSourcePage(r, defaultSourcePage),
		errors:     NewValidationErrors(),
		sourceFn:   sourceFn,
	}
}

// NewContext builds a Context outside of a Dispatcher, rendering the source
// page in place.
func NewContext(r *http.Request, defaultSourcePage string) *Context {
	return newContext(r, defaultSourcePage, func(c *Context) Outcome {
		return &SourcePage{Path: c.SourcePage(), Errors: c.Errors(), Mode: SourcePageRender}
	})
}

// Request returns the underlying HTTP request.
func (c *Context) Request() *http.Request {
	return c.request
}

// Ctx returns the request context.
func (c *Context) Ctx() context.Context {
	return c.request.Context()
}

// Event returns the name of the resolved handler, empty when none was resolved.
func (c *Context) Event() string {
	return c.event
}

// Errors returns the request's error collection.
func (c *Context) Errors() *ValidationErrors {
	return c.errors
}

// SourcePage returns the path of the page that submitted the request.
func (c *Context) SourcePage() string {
	return c.sourcePage
}

// SourcePageOutcome returns the outcome that sends the user back to the
// source page with the current errors.
func (c *Context) SourcePageOutcome() Outcome {
	return c.sourceFn(c)
}

// resolveSourcePage prefers the explicit parameter, then a same-host Referer,
// then the binding default. Only local paths are accepted.
func resolveSourcePage(r *http.Request, fallback string) string {
	if p := localPath(r.URL.Query().Get(ParamSourcePage)); p != "" {
		return p
	}
	if p := localPath(r.PostFormValue(ParamSourcePage)); p != "" {
		return p
	}

	if ref := r.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || u.Host == r.Host) {
			if p := localPath(u.Path); p != "" {
				return p
			}
		}
	}

	return fallback
}

func localPath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.ContainsAny(p, "\r\n\\") {
		return ""
	}
	return p
}
