package inbound

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/formgate/internal/account/outbound/store"
	"github.com/shandysiswandi/formgate/internal/account/usecase"
	"github.com/shandysiswandi/formgate/internal/pkg/action"
	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/flash"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/router"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
	"github.com/shandysiswandi/formgate/internal/pkg/validationgate"
	"github.com/shandysiswandi/formgate/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourcePageBody struct {
	Message    string            `json:"message"`
	SourcePage string            `json:"source_page"`
	Error      map[string]string `json:"error"`
	Values     map[string]string `json:"values"`
}

func newServer(t *testing.T, mode action.SourcePageMode) *router.Router {
	t.Helper()

	engine, err := validator.NewV10Validator(validator.WithGroups(groupRegistration, groupBusiness))
	require.NoError(t, err)

	ins := instrument.NewNoop()
	ro := router.NewRouter(router.Config{
		UUID:       uid.NewUUID(),
		Instrument: ins,
		Dispatcher: action.NewDispatcher(action.DispatcherConfig{
			Interceptors:   []action.Interceptor{validationgate.New(engine, ins)},
			Flash:          flash.NewMemory(clock.New(), uid.NewUUID(), time.Minute),
			SourcePageMode: mode,
		}),
	})

	uc := usecase.New(usecase.Dependency{
		RepoStore:  store.NewMemory(),
		Validator:  engine,
		UUID:       uid.Static("acc-1"),
		Clock:      clock.New(),
		Instrument: ins,
	})
	RegisterActionEndpoint(ro, uc)
	RegisterHTTPEndpoint(ro, uc)

	return ro
}

func post(ro http.Handler, form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, PathSignup, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	ro.ServeHTTP(w, r)
	return w
}

func postJSON(ro http.Handler, event, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, PathSignup+"?_event="+event, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ro.ServeHTTP(w, r)
	return w
}

func validForm(event string) url.Values {
	return url.Values{
		"_event":    {event},
		"email":     {"jane@example.com"},
		"password":  {"correct-horse"},
		"full_name": {"Jane Doe"},
	}
}

func sourcePage(t *testing.T, w *httptest.ResponseRecorder) sourcePageBody {
	t.Helper()

	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	var body sourcePageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSignup_Submit(t *testing.T) {
	// Arrange
	ro := newServer(t, action.SourcePageRender)

	// Act
	w := post(ro, validForm("submit"))

	// Assert
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, PathWelcome+"?account_id=acc-1", w.Header().Get("Location"))
}

func TestSignup_Submit_JSONBody(t *testing.T) {
	// Arrange
	ro := newServer(t, action.SourcePageRender)
	body := `{"email":"jane@example.com","password":"correct-horse","full_name":"Jane Doe"}`

	// Act
	w := postJSON(ro, "submit", body)

	// Assert
	assert.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, PathWelcome+"?account_id=acc-1", w.Header().Get("Location"))
}

func TestSignup_SubmitBusiness_JSONBodyErrorsUseFormKeys(t *testing.T) {
	// Arrange
	ro := newServer(t, action.SourcePageRender)
	body := `{"email":"jane@example.com","password":"correct-horse","full_name":"Jane Doe","company":"Acme","tax_id":"x"}`

	// Act
	w := postJSON(ro, "submit_business", body)

	// Assert
	page := sourcePage(t, w)
	assert.Len(t, page.Error, 1)
	assert.Contains(t, page.Error, "tax_id")
	assert.Equal(t, "x", page.Values["tax_id"])
}

func TestSignup_Submit_NameTooShortOnceTrimmed(t *testing.T) {
	// Arrange
	ro := newServer(t, action.SourcePageRender)
	form := validForm("submit")
	form.Set("full_name", "   Jo    ")

	// Act
	w := post(ro, form)

	// Assert
	body := sourcePage(t, w)
	assert.Equal(t, map[string]string{"full_name": "full_name must be at least 5 characters in length"}, body.Error)
}

func TestSignup_Submit_RequiresPost(t *testing.T) {
	// Arrange
	ro := newServer(t, action.SourcePageRender)
	r := httptest.NewRequest(http.MethodGet, PathSignup+"?"+validForm("submit").Encode(), nil)
	w := httptest.NewRecorder()

	// Act
	ro.ServeHTTP(w, r)

	// Assert
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"message":"Event \"submit\" does not accept GET"}`, w.Body.String())
}

func TestSignup_Submit_InvalidEmail(t *testing.T) {
	// Arrange
	ro := newServer(t, action.SourcePageRender)
	form := validForm("submit")
	form.Set("email", "not-an-email")

	// Act
	w := post(ro, form)

	// Assert
	body := sourcePage(t, w)
	assert.Equal(t, PathSignup, body.SourcePage)
	assert.Equal(t, map[string]string{"email": "email must be a valid email address"}, body.Error)
	assert.Equal(t, "not-an-email", body.Values["email"])
}

func TestSignup_Submit_RegistrationGroup(t *testing.T) {
	ro := newServer(t, action.SourcePageRender)
	form := validForm("submit")
	form.Set("full_name", "Jo")
	form.Set("password", "short")

	body := sourcePage(t, post(ro, form))

	assert.Equal(t, map[string]string{
		"password":  "password must be 8-72 characters",
		"full_name": "full_name must be at least 5 characters in length",
	}, body.Error)
}

func TestSignup_SubmitBusiness_RequiresCompanyAndTaxID(t *testing.T) {
	ro := newServer(t, action.SourcePageRender)

	body := sourcePage(t, post(ro, validForm("submit_business")))

	assert.Equal(t, map[string]string{
		"company": "company is a required field",
		"tax_id":  "tax_id is a required field",
	}, body.Error)
	_, echoed := body.Values["tax_id"]
	assert.False(t, echoed, "a missing tax id has no rejected value to echo")
}

func TestSignup_SubmitBusiness(t *testing.T) {
	ro := newServer(t, action.SourcePageRender)
	form := validForm("submit_business")
	form.Set("company", "ACME")
	form.Set("tax_id", "TX12345")

	w := post(ro, form)

	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestSignup_Cancel_SkipsValidation(t *testing.T) {
	ro := newServer(t, action.SourcePageRender)

	w := post(ro, url.Values{"_event": {"cancel"}, "email": {"not-an-email"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestSignup_Submit_EmailRegistered(t *testing.T) {
	ro := newServer(t, action.SourcePageRender)
	require.Equal(t, http.StatusSeeOther, post(ro, validForm("submit")).Code)

	body := sourcePage(t, post(ro, validForm("submit")))

	assert.Equal(t, map[string]string{"email": "email is already registered"}, body.Error)
}

func TestSignup_RedirectMode_ViewShowsFlashErrors(t *testing.T) {
	// Arrange
	ro := newServer(t, action.SourcePageRedirect)
	form := validForm("submit")
	form.Set("email", "not-an-email")

	// Act
	w := post(ro, form)
	require.Equal(t, http.StatusSeeOther, w.Code)

	view := httptest.NewRecorder()
	ro.ServeHTTP(view, httptest.NewRequest(http.MethodGet, w.Header().Get("Location"), nil))

	// Assert
	require.Equal(t, http.StatusOK, view.Code)

	var body struct {
		Data SignupView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(view.Body.Bytes(), &body))
	assert.Equal(t, []action.FieldError{
		{Field: "email", Message: "email must be a valid email address", Value: "not-an-email", HasValue: true},
	}, body.Data.Errors)
}
