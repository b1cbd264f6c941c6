package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/formgate/internal/pkg/strcase"
)

const defaultTagPrefix = "validate"

var (
	// Based on NIST 800-63B Guidelines
	rePassword = regexp.MustCompile(`^.{8,72}$`)

	reGroupName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10ValidationError is a field-to-message map returned when validation fails.
//
// Keys are the field names as exposed to clients (form tag, json tag or snake_case).
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// V10Option customizes a V10Validator.
type V10Option func(*V10Validator)

// WithTagPrefix changes the struct tag holding default-group constraints.
// Group "x" then reads its constraints from "<prefix>_x".
func WithTagPrefix(prefix string) V10Option {
	return func(v *V10Validator) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			v.tagPrefix = prefix
		}
	}
}

// WithGroups builds the engines for the given groups eagerly so a bad group
// name fails at startup instead of on the first request.
func WithGroups(groups ...string) V10Option {
	return func(v *V10Validator) {
		v.preload = append(v.preload, groups...)
	}
}

// V10Validator implements Validator and GroupValidator using go-playground/validator v10.
//
// Each group is served by its own *validator.Validate reading a distinct struct
// tag. Engines are built once and shared; V10Validator is safe for concurrent use.
type V10Validator struct {
	tagPrefix string
	preload   []string

	mu      sync.RWMutex
	engines map[string]*groupEngine
}

type groupEngine struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator(opts ...V10Option) (*V10Validator, error) {
	v := &V10Validator{
		tagPrefix: defaultTagPrefix,
		engines:   make(map[string]*groupEngine),
	}
	for _, opt := range opts {
		opt(v)
	}

	if _, err := v.engine(DefaultGroup); err != nil {
		return nil, err
	}
	for _, g := range v.preload {
		if _, err := v.engine(g); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Validate validates a struct against the default group and returns a
// V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	violations, err := v.ValidateGroups(context.Background(), data, []string{DefaultGroup})
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		return nil
	}

	errV10 := make(V10ValidationError, len(violations))
	for _, vi := range violations {
		if _, exists := errV10[vi.Path]; !exists {
			errV10[vi.Path] = vi.Message
		}
	}

	return errV10
}

// ValidateGroups runs the constraints of every group in order and collects the
// violations. An empty group list means the default group only.
func (v *V10Validator) ValidateGroups(ctx context.Context, data any, groups []string) ([]Violation, error) {
	if !isStructTarget(data) {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidTarget, data)
	}

	if len(groups) == 0 {
		groups = []string{DefaultGroup}
	}

	var violations []Violation
	for _, group := range groups {
		eng, err := v.engine(group)
		if err != nil {
			return nil, err
		}

		err = eng.validate.StructCtx(ctx, data)
		if err == nil {
			continue
		}

		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return nil, err
		}

		for _, fe := range validateErrs {
			violations = append(violations, Violation{
				Path:         fieldPath(fe),
				Message:      fe.Translate(eng.translator),
				Group:        group,
				Tag:          fe.Tag(),
				InvalidValue: invalidValue(fe.Value()),
			})
		}
	}

	return violations, nil
}

// TagName returns the struct tag holding the constraints of group.
func (v *V10Validator) TagName(group string) (string, error) {
	if group == DefaultGroup {
		return v.tagPrefix, nil
	}
	if !reGroupName.MatchString(group) {
		return "", fmt.Errorf("%w: %q", ErrInvalidGroup, group)
	}
	return v.tagPrefix + "_" + group, nil
}

func (v *V10Validator) engine(group string) (*groupEngine, error) {
	v.mu.RLock()
	eng, ok := v.engines[group]
	v.mu.RUnlock()
	if ok {
		return eng, nil
	}

	tag, err := v.TagName(group)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if eng, ok := v.engines[group]; ok {
		return eng, nil
	}

	eng, err = newGroupEngine(tag)
	if err != nil {
		return nil, fmt.Errorf("validator: build engine for group %q: %w", group, err)
	}
	v.engines[group] = eng

	return eng, nil
}

func newGroupEngine(tag string) (*groupEngine, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.SetTagName(tag)
	validate.RegisterTagNameFunc(fieldName)

	// translations are registered per engine, a translator rejects duplicate keys
	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := v10CustomValidation(validate, enTrans); err != nil {
		return nil, err
	}

	return &groupEngine{validate: validate, translator: enTrans}, nil
}

// fieldName exposes fields under the name clients send them with.
func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name == "-" {
			return "-"
		}
		if name != "" {
			return name
		}
	}
	return strcase.ToLowerSnake(fld.Name)
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found && rest != "" {
		return rest
	}
	return fe.Field()
}

func invalidValue(val any) any {
	if val == nil {
		return nil
	}

	rv := reflect.ValueOf(val)
	for {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
			continue
		case reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			if rv.IsNil() {
				return nil
			}
		}
		break
	}

	if !rv.IsValid() || !rv.CanInterface() {
		return nil
	}
	return rv.Interface()
}

func isStructTarget(data any) bool {
	if data == nil {
		return false
	}

	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}

	return rv.Kind() == reflect.Struct
}

// v10CustomValidation registers the password rule and the messages that
// replace the library defaults. Translations are added with override so they
// win over the ones RegisterDefaultTranslations already installed.
func v10CustomValidation(validate *validator.Validate, enTrans ut.Translator) error {
	err := validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		p, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return rePassword.MatchString(p)
	})
	if err != nil {
		return fmt.Errorf("validator: register password rule: %w", err)
	}

	messages := map[string]string{
		"password":   "{0} must be 8-72 characters",
		"alphaspace": "{0} can contain only letters and spaces",
	}

	for tag, text := range messages {
		err := validate.RegisterTranslation(tag, enTrans,
			func(ut ut.Translator) error {
				return ut.Add(tag, text, true)
			},
			translateField,
		)
		if err != nil {
			return fmt.Errorf("validator: register %s translation: %w", tag, err)
		}
	}

	return nil
}

func translateField(ut ut.Translator, fe validator.FieldError) string {
	t, err := ut.T(fe.Tag(), fe.Field())
	if err != nil {
		slog.Warn("warning: error translating", "FieldError", fe, "error", err)
		return fe.Error()
	}

	return t
}
