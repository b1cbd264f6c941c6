package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
app:
  server:
    http:
      address: "127.0.0.1:0"
    cors: ["http://localhost:3000"]
instrument:
  enabled: false
  service_name: formgate-test
  log_level: error
  log_mask_fields: [password]
validator:
  groups: [registration, business]
action:
  source_page:
    mode: redirect
flash:
  driver: memory
  ttl_seconds: 60
modules:
  account:
    enabled: true
`

func startApp(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	t.Setenv("CONFIG_PATH", path)

	a := New()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	errs := a.Serve(l)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.Stop(ctx)
		assert.ErrorIs(t, <-errs, http.ErrServerClosed)
	})

	return "http://" + l.Addr().String()
}

var noRedirect = &http.Client{
	Timeout: 5 * time.Second,
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

func TestApp_SignupFlow(t *testing.T) {
	base := startApp(t)

	// Arrange
	form := url.Values{
		"_event":    {"submit"},
		"email":     {"not-an-email"},
		"password":  {"correct-horse"},
		"full_name": {"Jane Doe"},
	}

	// Act: invalid submit goes back to the source page
	resp, err := noRedirect.PostForm(base+"/account/signup", form)
	require.NoError(t, err)
	resp.Body.Close()

	// Assert
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/account/signup?_flash="), loc)
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))

	// Act: the source page shows the errors once
	resp, err = noRedirect.Get(base + loc)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view struct {
		Data struct {
			Errors []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
				Value   string `json:"value"`
			} `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &view))
	require.Len(t, view.Data.Errors, 1)
	assert.Equal(t, "email", view.Data.Errors[0].Field)
	assert.Equal(t, "not-an-email", view.Data.Errors[0].Value)

	// Act: the fixed submit succeeds
	form.Set("email", "jane@example.com")
	resp, err = noRedirect.PostForm(base+"/account/signup", form)
	require.NoError(t, err)
	resp.Body.Close()

	// Assert
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/account/welcome?account_id="))
}

func TestApp_Health(t *testing.T) {
	base := startApp(t)

	resp, err := noRedirect.Get(base + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
