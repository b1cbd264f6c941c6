package action

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
)

// Outcome decides what response a request produces.
type Outcome interface {
	Execute(w http.ResponseWriter, r *http.Request) error
}

// FlashStore keeps errors across the redirect of a source page outcome.
type FlashStore interface {
	Put(ctx context.Context, errs []FieldError) (string, error)
	Take(ctx context.Context, id string) ([]FieldError, error)
}

// SourcePageMode selects how the source page outcome answers.
type SourcePageMode string

const (
	// SourcePageRender answers 422 with the errors in the body.
	SourcePageRender SourcePageMode = "render"
	// SourcePageRedirect stores the errors in the flash store and redirects (303) to the source page.
	SourcePageRedirect SourcePageMode = "redirect"
)

type successResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type sourcePageResponse struct {
	Message    string            `json:"message"`
	SourcePage string            `json:"source_page,omitempty"`
	Error      map[string]string `json:"error"`
	Values     map[string]string `json:"values,omitempty"`
}

// JSON renders data inside the success envelope.
type JSON struct {
	Status  int
	Message string
	Data    any
}

// Execute implements Outcome.
func (o JSON) Execute(w http.ResponseWriter, _ *http.Request) error {
	status := o.Status
	if status == 0 {
		status = http.StatusOK
	}

	msg := o.Message
	if msg == "" {
		msg = "request has been successfully"
	}

	writeJSON(w, successResponse{Message: msg, Data: o.Data}, status)
	return nil
}

// Redirect sends the client to URL, 303 See Other unless Status is set.
type Redirect struct {
	URL    string
	Status int
}

// Execute implements Outcome.
func (o Redirect) Execute(w http.ResponseWriter, r *http.Request) error {
	status := o.Status
	if status == 0 {
		status = http.StatusSeeOther
	}

	http.Redirect(w, r, o.URL, status)
	return nil
}

// NoContent answers 204.
type NoContent struct{}

// Execute implements Outcome.
func (NoContent) Execute(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// SourcePage returns the user to the page the request came from, carrying the errors.
type SourcePage struct {
	Path   string
	Errors *ValidationErrors
	Mode   SourcePageMode
	Flash  FlashStore
}

// Execute implements Outcome.
func (o *SourcePage) Execute(w http.ResponseWriter, r *http.Request) error {
	errs := o.Errors
	if errs == nil {
		errs = NewValidationErrors()
	}

	if o.Mode == SourcePageRedirect && o.Flash != nil && o.Path != "" {
		id, err := o.Flash.Put(r.Context(), errs.All())
		if err != nil {
			return goerror.NewServer(fmt.Errorf("action: store flash errors: %w", err))
		}

		slog.DebugContext(r.Context(), "redirecting to source page", "source_page", o.Path, "errors", errs.Len())
		http.Redirect(w, r, withQuery(o.Path, ParamFlash, id), http.StatusSeeOther)
		return nil
	}

	writeJSON(w, sourcePageResponse{
		Message:    "Validation error",
		SourcePage: o.Path,
		Error:      errs.Messages(),
		Values:     errs.Values(),
	}, http.StatusUnprocessableEntity)
	return nil
}

func withQuery(path, key, value string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}

	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()

	return u.String()
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("action: failed to encode data to json", "error", err)
	}
}
