package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/michi-labs/catapi/internal/core/domain"
	"github.com/michi-labs/catapi/internal/core/ports"
	"github.com/michi-labs/catapi/internal/infrastructure/catalog"
	"github.com/michi-labs/catapi/internal/pkg/reqctx"
)

type stubUsers struct {
	ports.UserService
	validateFn func(ctx context.Context, username, password string) (*domain.User, error)
	createFn   func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
}

func (s *stubUsers) ValidateUser(ctx context.Context, username, password string) (*domain.User, error) {
	return s.validateFn(ctx, username, password)
}

func (s *stubUsers) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestRouter(users ports.UserService, cat ports.BreedCatalog) *echo.Echo {
	return NewRouter(Dependencies{
		Users:    users,
		Catalog:  cat,
		Mongo:    okPinger{},
		Registry: prometheus.NewRegistry(),
		Log:      zerolog.Nop(),
	})
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	msg, ok := resp["message"].(string)
	if !ok {
		t.Fatalf("expected message field, got %+v", resp)
	}
	return msg
}

func TestRouter_UpstreamUnavailable_Returns500WithMessage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	client := catalog.NewClient(catalog.Config{BaseURL: upstream.URL}, upstream.Client(), zerolog.Nop())
	e := newTestRouter(&stubUsers{}, client)

	rec := serve(e, http.MethodGet, "/api/breeds", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "error fetching cat breeds" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRouter_UpstreamSuccess_RelaysBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/breeds/search" || r.URL.RawQuery != "q=sib" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"sibe"}]`))
	}))
	defer upstream.Close()

	client := catalog.NewClient(catalog.Config{BaseURL: upstream.URL}, upstream.Client(), zerolog.Nop())
	e := newTestRouter(&stubUsers{}, client)

	rec := serve(e, http.MethodGet, "/api/breeds/search/q=sib", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != `[{"id":"sibe"}]` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_ErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", domain.ErrPasswordMissing, http.StatusInternalServerError, "password required"},
		{"conflict", domain.NewConflictError("username already exists", nil), http.StatusInternalServerError, "username already exists"},
		{"not found", domain.ErrUserNotFound, http.StatusInternalServerError, "user not found"},
		{"unclassified", errors.New("socket closed"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &stubUsers{
				createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
					return nil, tt.err
				},
			}
			e := newTestRouter(users, nil)

			rec := serve(e, http.MethodPost, "/api/register",
				`{"name":"A","identification":"1","email":"a@x.com","age":20,"username":"a"}`)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if msg := decodeMessage(t, rec); msg != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, msg)
			}
		})
	}
}

func TestRouter_Login_InvalidCredentialsIs401(t *testing.T) {
	users := &stubUsers{
		validateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	e := newTestRouter(users, nil)

	rec := serve(e, http.MethodPost, "/api/login", `{"username":"a","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "invalid username or password" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRouter_RequestIDReachesService(t *testing.T) {
	var seen string
	users := &stubUsers{
		validateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			seen = reqctx.RequestID(ctx)
			return &domain.User{ID: "u1", Username: username}, nil
		},
	}
	e := newTestRouter(users, nil)

	rec := serve(e, http.MethodPost, "/api/login", `{"username":"a","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == "" || seen != rec.Header().Get(echo.HeaderXRequestID) {
		t.Fatalf("request id %q not propagated (header %q)", seen, rec.Header().Get(echo.HeaderXRequestID))
	}
}

func TestRouter_UnknownRouteKeepsStatus(t *testing.T) {
	e := newTestRouter(&stubUsers{}, nil)

	rec := serve(e, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	_ = decodeMessage(t, rec)
}

func TestRouter_OperationalRoutes(t *testing.T) {
	e := newTestRouter(&stubUsers{}, nil)

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		rec := serve(e, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_CORS(t *testing.T) {
	e := newTestRouter(&stubUsers{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/breeds", nil)
	req.Header.Set(echo.HeaderOrigin, "http://example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
}
