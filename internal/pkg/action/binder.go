package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
)

const maxMultipartMemory = 32 << 20

// Binder populates an action from the query string and the request body.
//
// JSON bodies, query and form values all go through the `form` tag, key by
// key, so one unconvertible value becomes a FieldError and the rest still
// bind. A JSON body that is not a single object fails the request, and a JSON
// key naming no field is reported as a FieldError.
type Binder struct {
	tagName string
}

// NewBinder returns a Binder reading the `form` struct tag.
func NewBinder() *Binder {
	return &Binder{tagName: "form"}
}

// Bind populates dst and reports conversion problems into errs.
func (b *Binder) Bind(r *http.Request, dst any, errs *ValidationErrors) error {
	if isJSON(r) {
		body, err := decodeJSONBody(r.Body)
		if err != nil {
			return err
		}

		for _, key := range sortedKeys(body) {
			if err := b.bindKey(dst, key, body[key], jsonEcho(body[key]), true, errs); err != nil {
				return err
			}
		}
	}

	values, err := requestValues(r)
	if err != nil {
		return goerror.NewInvalidFormat()
	}

	for _, key := range sortedKeys(values) {
		raw := values[key]

		var input any = raw
		if len(raw) == 1 {
			input = raw[0]
		}

		if err := b.bindKey(dst, key, input, strings.Join(raw, ","), false, errs); err != nil {
			return err
		}
	}

	return nil
}

// bindKey decodes one input key into dst. strict reports keys matching no field.
func (b *Binder) bindKey(dst any, key string, input any, echo string, strict bool, errs *ValidationErrors) error {
	var md mapstructure.Metadata

	dec, err := b.decoder(dst, &md)
	if err != nil {
		return err
	}

	if err := dec.Decode(nest(key, input)); err != nil {
		errs.Add(FieldError{
			Field:    key,
			Message:  fmt.Sprintf("%s has an invalid value", key),
			Value:    echo,
			HasValue: true,
		})
		return nil
	}

	if strict && len(md.Unused) > 0 {
		errs.Add(FieldError{
			Field:    key,
			Message:  fmt.Sprintf("%s is not a known field", key),
			Value:    echo,
			HasValue: true,
		})
	}

	return nil
}

func (b *Binder) decoder(dst any, md *mapstructure.Metadata) (*mapstructure.Decoder, error) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          b.tagName,
		Metadata:         md,
		WeaklyTypedInput: true,
		Result:           dst,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("action: build binder for %T: %w", dst, err)
	}
	return dec, nil
}

// nest turns "address.city" into {"address": {"city": value}}.
func nest(key string, value any) map[string]any {
	parts := strings.Split(key, ".")
	out := map[string]any{parts[len(parts)-1]: value}
	for i := len(parts) - 2; i >= 0; i-- {
		out = map[string]any{parts[i]: out}
	}
	return out
}

// sortedKeys returns the keys of m in order, skipping reserved "_" params.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		if strings.HasPrefix(key, "_") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func requestValues(r *http.Request) (url.Values, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}

	return r.Form, nil
}

func isJSON(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/json"
}

func decodeJSONBody(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, goerror.NewInvalidFormat()
	}

	return out, nil
}

func jsonEcho(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
