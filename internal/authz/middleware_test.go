package authz_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/helmsman-kit/helmsman/internal/authz"
)

func newGuard() authz.Middleware {
	return authz.Middleware{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func okHandler(t *testing.T, called *bool) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}
}

func withPrincipal(req *http.Request, p *authz.Principal) *http.Request {
	if p == nil {
		return req
	}
	return req.WithContext(authz.ContextWithPrincipal(req.Context(), p))
}

func TestRequireNoPrincipalIsUnauthorized(t *testing.T) {
	called := false
	handler := newGuard().Require(authz.ActionViewUsers)(okHandler(t, &called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if called {
		t.Fatal("next handler ran without a principal")
	}
}

func TestRequireDeniesBelowFloor(t *testing.T) {
	called := false
	handler := newGuard().Require(authz.ActionViewUsers)(okHandler(t, &called))

	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/users", nil),
		&authz.Principal{ID: 9, Role: authz.RoleUser})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if called {
		t.Fatal("next handler ran despite denial")
	}
}

func TestRequirePassesAtFloor(t *testing.T) {
	called := false
	handler := newGuard().Require(authz.ActionViewUsers)(okHandler(t, &called))

	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/users", nil),
		&authz.Principal{ID: 4, Role: authz.RoleModerator})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !called {
		t.Fatal("next handler did not run")
	}
}

func TestRequireForTarget(t *testing.T) {
	tests := []struct {
		name      string
		principal *authz.Principal
		targetID  string
		want      int
	}{
		{"nil principal", nil, "7", http.StatusUnauthorized},
		{"bad target id", &authz.Principal{ID: 7, Role: authz.RoleUser}, "abc", http.StatusBadRequest},
		{"self edit allowed", &authz.Principal{ID: 7, Role: authz.RoleUser}, "7", http.StatusOK},
		{"other user denied", &authz.Principal{ID: 7, Role: authz.RoleUser}, "8", http.StatusForbidden},
		{"moderator allowed", &authz.Principal{ID: 2, Role: authz.RoleModerator}, "8", http.StatusOK},
		{"admin allowed", &authz.Principal{ID: 1, Role: authz.RoleAdmin}, "8", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			router := chi.NewRouter()
			router.With(newGuard().RequireForTarget(authz.ActionEditUser, "id")).
				Put("/users/{id}", okHandler(t, &called))

			req := withPrincipal(httptest.NewRequest(http.MethodPut, "/users/"+tt.targetID, nil), tt.principal)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if called != (tt.want == http.StatusOK) {
				t.Fatalf("next handler called = %v for status %d", called, rec.Code)
			}
		})
	}
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	p := &authz.Principal{ID: 3, Role: authz.RoleAdmin}
	ctx := authz.ContextWithPrincipal(context.Background(), p)
	if got := authz.PrincipalFromContext(ctx); got != p {
		t.Fatalf("PrincipalFromContext = %+v, want %+v", got, p)
	}
	if got := authz.PrincipalFromContext(context.Background()); got != nil {
		t.Fatalf("PrincipalFromContext on empty context = %+v, want nil", got)
	}
}
