package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"lendflow/internal/auth"
	"lendflow/internal/logging"
	"lendflow/internal/model"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFrom(c))
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		header := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, header)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, header, string(body))
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "test-id-123")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, "test-id-123", resp.Header.Get(RequestIDHeader))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "test-id-123", string(body))
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		long := strings.Repeat("x", maxRequestIDLength+1)
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, long)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.NotEqual(t, long, resp.Header.Get(RequestIDHeader))
		assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
	})

	t.Run("replaces an id with unsafe characters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, `abc"} {"level":"error`)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Logger(logging.New(&buf, time.UTC, "info")))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})

	t.Run("success line", func(t *testing.T) {
		buf.Reset()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

		assert.NotEmpty(t, line["request_id"])
		assert.Equal(t, "GET", line["method"])
		assert.Equal(t, "/test", line["path"])
		assert.Equal(t, float64(fiber.StatusAccepted), line["status"])
		assert.Equal(t, "info", line["level"])
		assert.NotNil(t, line["latency"])
		assert.NotEmpty(t, line["ts"])
		assert.NotContains(t, line, "user_id")
	})

	t.Run("error status from returned error", func(t *testing.T) {
		buf.Reset()
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.NoError(t, err)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, float64(fiber.StatusNotFound), line["status"])
		assert.Equal(t, "warning", line["level"])
	})
}

func TestLogger_UserID(t *testing.T) {
	var buf bytes.Buffer
	tokens := newIssuer(t)

	app := fiber.New()
	app.Use(Logger(logging.New(&buf, time.UTC, "info")))
	app.Get("/me", Authenticate(tokens), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issue(t, tokens, 42, model.RoleBorrower))
	_, err := app.Test(req)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(42), line["user_id"])
}

func TestLogger_TraceIDs(t *testing.T) {
	var buf bytes.Buffer
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(trace.ContextWithSpanContext(c.UserContext(), sc))
		return c.Next()
	})
	app.Use(Logger(logging.New(&buf, time.UTC, "info")))
	app.Get("/traced", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/traced", nil))
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", line["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", line["span_id"])
}

func newIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("test-secret", "lendflow", time.Hour)
	require.NoError(t, err)
	return tokens
}

func issue(t *testing.T, tokens *auth.TokenIssuer, id int64, role model.Role) string {
	t.Helper()
	tok, _, err := tokens.Issue(model.User{ID: id, Username: "u", Role: role})
	require.NoError(t, err)
	return tok
}

func TestAuthenticate(t *testing.T) {
	tokens := newIssuer(t)

	app := fiber.New()
	app.Get("/whoami", Authenticate(tokens), func(c *fiber.Ctx) error {
		p, ok := auth.PrincipalFrom(c.UserContext())
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.JSON(p)
	})

	valid := issue(t, tokens, 7, model.RoleBorrower)

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"bearer", fiber.HeaderAuthorization, "Bearer " + valid, fiber.StatusOK},
		{"lowercase scheme", fiber.HeaderAuthorization, "bearer " + valid, fiber.StatusOK},
		{"x-auth-token", AuthTokenHeader, valid, fiber.StatusOK},
		{"missing", "", "", fiber.StatusUnauthorized},
		{"basic scheme", fiber.HeaderAuthorization, "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", fiber.HeaderAuthorization, "Bearer not-a-jwt", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == fiber.StatusOK {
				var p auth.Principal
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
				assert.Equal(t, int64(7), p.UserID)
				assert.Equal(t, model.RoleBorrower, p.Role)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := newIssuer(t)

	app := fiber.New()
	app.Get("/admin", Authenticate(tokens), RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/unauthenticated", RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	call := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, call("/admin", issue(t, tokens, 1, model.RoleAdmin)))
	assert.Equal(t, fiber.StatusForbidden, call("/admin", issue(t, tokens, 2, model.RoleLender)))
	assert.Equal(t, fiber.StatusUnauthorized, call("/unauthenticated", ""))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	app := fiber.New()
	app.Post("/auth/login", rl.Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	call := func() *http.Response {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, fiber.StatusOK, call().StatusCode)
	assert.Equal(t, fiber.StatusOK, call().StatusCode)

	limited := call()
	assert.Equal(t, fiber.StatusTooManyRequests, limited.StatusCode)
	assert.Equal(t, "1", limited.Header.Get(fiber.HeaderRetryAfter))

	now = now.Add(time.Second)
	assert.Equal(t, fiber.StatusOK, call().StatusCode)
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, 1)

	app := fiber.New()
	app.Get("/", rl.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

type stubSettings struct {
	s   model.Settings
	err error
}

func (s stubSettings) Get(context.Context) (model.Settings, error) { return s.s, s.err }

func TestMaintenance(t *testing.T) {
	tokens := newIssuer(t)
	on := model.DefaultSettings()
	on.MaintenanceMode = true

	newApp := func(src SettingsSource) *fiber.App {
		app := fiber.New()
		ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
		app.Get("/loanApplications", Authenticate(tokens), Maintenance(src), ok)
		app.Post("/loanApplications", Authenticate(tokens), Maintenance(src), ok)
		app.Post("/auth/register", Maintenance(src), ok)
		return app
	}

	call := func(app *fiber.App, method, path, token string) int {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	borrower := issue(t, tokens, 7, model.RoleBorrower)
	admin := issue(t, tokens, 1, model.RoleAdmin)

	app := newApp(stubSettings{s: on})
	assert.Equal(t, fiber.StatusOK, call(app, http.MethodGet, "/loanApplications", borrower))
	assert.Equal(t, fiber.StatusServiceUnavailable, call(app, http.MethodPost, "/loanApplications", borrower))
	assert.Equal(t, fiber.StatusOK, call(app, http.MethodPost, "/loanApplications", admin))
	assert.Equal(t, fiber.StatusServiceUnavailable, call(app, http.MethodPost, "/auth/register", ""))

	app = newApp(stubSettings{s: model.DefaultSettings()})
	assert.Equal(t, fiber.StatusOK, call(app, http.MethodPost, "/loanApplications", borrower))

	app = newApp(stubSettings{err: errors.New("db down")})
	assert.Equal(t, fiber.StatusOK, call(app, http.MethodPost, "/loanApplications", borrower))
}
