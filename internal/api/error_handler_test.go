package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/michi-labs/catapi/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo http error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"unauthenticated", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid username or password"},
		{"validation stays 500", domain.NewValidationError("age is required"), http.StatusInternalServerError, "age is required"},
		{"conflict stays 500", domain.NewConflictError("email already registered", nil), http.StatusInternalServerError, "email already registered"},
		{"upstream", domain.NewUpstreamError("error fetching images: Service Unavailable", errors.New("status 503")), http.StatusInternalServerError, "error fetching images: Service Unavailable"},
		{"wrapped domain error", errors.Join(errors.New("ctx"), domain.ErrUserNotFound), http.StatusInternalServerError, "user not found"},
		{"unknown kind", domain.NewUnknownError("failed to hash password", errors.New("rand")), http.StatusInternalServerError, "failed to hash password"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			code, msg := resolveError(tt.err, zerolog.Nop(), c)
			if code != tt.wantCode || msg != tt.wantMsg {
				t.Fatalf("got (%d, %q), want (%d, %q)", code, msg, tt.wantCode, tt.wantMsg)
			}
		})
	}
}
