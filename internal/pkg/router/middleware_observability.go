package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/formgate/internal/pkg/action"
	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const maxLoggedBodyBytes = 32 * 1024 // 32KB

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	body   *bytes.Buffer
	capped bool
	err    error
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if !w.capped && len(p) > 0 {
		remaining := maxLoggedBodyBytes - w.body.Len()
		switch {
		case remaining <= 0:
			w.capped = true
		case len(p) > remaining:
			w.body.Write(p[:remaining])
			w.capped = true
		default:
			w.body.Write(p)
		}
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// SetError records the error a handler answered with.
func (w *statusRecorder) SetError(err error) {
	w.err = err
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// clientIP prefers the proxy headers over the socket address.
func clientIP(r *http.Request) string {
	for _, h := range []string{"True-Client-IP", "X-Real-IP", "X-Forwarded-For"} {
		ip, _, _ := strings.Cut(r.Header.Get(h), ",")
		if ip = strings.TrimSpace(ip); net.ParseIP(ip) != nil {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return ""
}

// eventName reads the action event from the query only; the form is left
// unparsed so the body stays intact for the binder.
func eventName(r *http.Request) string {
	return r.URL.Query().Get(action.ParamEvent)
}

type masker map[string]struct{}

func newMasker(cfg config.Config) masker {
	m := make(masker)
	if cfg == nil {
		return m
	}
	for _, field := range cfg.GetArray("instrument.log_mask_fields") {
		if field = strings.ToLower(strings.TrimSpace(field)); field != "" {
			m[field] = struct{}{}
		}
	}
	return m
}

func (m masker) hides(key string) bool {
	_, found := m[strings.ToLower(key)]
	return found
}

func (m masker) headers(headers http.Header) http.Header {
	if len(m) == 0 {
		return headers
	}

	result := headers.Clone()
	for key := range result {
		if m.hides(key) {
			result.Set(key, "***")
		}
	}
	return result
}

func (m masker) data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		masked := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.hides(k) {
				masked[k] = "***"
			} else {
				masked[k] = m.data(v2)
			}
		}
		return masked
	case []any:
		res := make([]any, len(val))
		for i, v2 := range val {
			res[i] = m.data(v2)
		}
		return res
	default:
		return v
	}
}

// body renders a request or response payload for the log: JSON and
// urlencoded forms are decoded and masked, text is kept and binary is dropped.
func (m masker) body(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var jsonBody any
	if err := json.Unmarshal(body, &jsonBody); err == nil {
		return m.data(jsonBody)
	}

	if strings.HasPrefix(strings.ToLower(contentType), "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil {
			masked := make(map[string]any, len(values))
			for k, v := range values {
				switch {
				case m.hides(k):
					masked[k] = "***"
				case len(v) == 1:
					masked[k] = v[0]
				default:
					masked[k] = v
				}
			}
			return masked
		}
	}

	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	return string(body)
}

// peekBody reads up to maxLoggedBodyBytes of the request body and puts them back.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	//nolint:errcheck // best effort for logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	if len(head) > maxLoggedBodyBytes {
		return head[:maxLoggedBodyBytes]
	}
	return head
}

func (m masker) responseBody(rec *statusRecorder) any {
	respBody := m.body(rec.Header().Get("Content-Type"), rec.body.Bytes())
	if rec.capped {
		return map[string]any{"body": respBody, "truncated": true}
	}
	return respBody
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	if ins == nil {
		ins = instrument.NewNoop()
	}

	mask := newMasker(cfg)
	tracer := ins.Tracer("http.server")
	requestCounter := instrument.NewCounter(ins, "http.server", "http.server.requests", "Number of HTTP requests received")
	durationHistogram := instrument.NewHistogram(ins, "http.server", "http.server.duration", "HTTP request duration in milliseconds", "ms")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			start := time.Now()

			ctx, span := tracer.Start(
				r.Context(),
				r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
				),
			)
			defer span.End()

			ip := clientIP(r)
			logRequest(ctx, r, route, ip, mask, peekBody(r))

			rec := &statusRecorder{ResponseWriter: w, body: &bytes.Buffer{}}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.statusCode()
			elapsed := time.Since(start)

			attrs := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			}

			switch {
			case status >= http.StatusInternalServerError && rec.err != nil:
				instrument.FailSpan(span, rec.err)
			case rec.err != nil:
				span.RecordError(rec.err)
				span.SetStatus(codes.Ok, "")
			case status >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(status))
			default:
				span.SetStatus(codes.Ok, "")
			}

			requestCounter.Add(ctx, 1, attrs...)
			durationHistogram.Record(ctx, float64(elapsed.Milliseconds()), attrs...)

			span.SetAttributes(attrs...)
			span.SetAttributes(
				semconv.NetworkProtocolVersionKey.String(r.Proto),
				semconv.ServerAddressKey.String(r.Host),
				semconv.ClientAddressKey.String(ip),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.String("action.event", eventName(r)),
				attribute.Int("http.response_content_length", rec.bytes),
			)

			slog.InfoContext(
				ctx,
				"response sent",
				"method", r.Method,
				"path", route,
				"uri", r.RequestURI,
				"status", status,
				"bytes", rec.bytes,
				"latency_ms", elapsed.Milliseconds(),
				"body", mask.responseBody(rec),
			)
		})
	}
}

func logRequest(ctx context.Context, r *http.Request, route, ip string, mask masker, body []byte) {
	slog.InfoContext(
		ctx,
		"request received",
		"method", r.Method,
		"path", route,
		"uri", r.RequestURI,
		"client_ip", ip,
		"headers", mask.headers(r.Header),
		"body", mask.body(r.Header.Get("Content-Type"), body),
	)
}
