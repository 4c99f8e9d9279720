package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/helmsman-kit/helmsman/internal/auth"
	"github.com/helmsman-kit/helmsman/internal/authz"
	"github.com/helmsman-kit/helmsman/internal/shared"
)

type stubRepo struct {
	user      *auth.User
	lookupErr error
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil {
		return nil, shared.ErrInvalidCredentials
	}
	return s.user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func (s *stubRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func activeUser(t *testing.T, id int64, role authz.Role, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &auth.User{ID: id, Email: "user@test.local", PasswordHash: string(hashed), Role: role, IsActive: true}
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	handler := auth.NewHandler(nil, auth.NewService(repo), sessionManager, csrfManager)
	return handler, sessionManager
}

func doLogin(t *testing.T, handler *auth.Handler, sessionManager *shared.SessionManager, body string) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Route("/auth", handler.MountRoutes)
	router.ServeHTTP(res, req)
	if err := sessionManager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return res, sess
}

func TestLoginSuccess(t *testing.T) {
	user := activeUser(t, 7, authz.RoleModerator, "correctpass")
	handler, sessionManager := newAuthHandler(t, &stubRepo{user: user})

	res, sess := doLogin(t, handler, sessionManager, `{"email":"user@test.local","password":"correctpass"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var body struct {
		UserID    int64  `json:"user_id"`
		Role      string `json:"role"`
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != 7 || body.Role != "moderator" {
		t.Fatalf("unexpected identity %+v", body)
	}
	if body.CSRFToken == "" {
		t.Fatalf("expected csrf token")
	}
	if sess.User() != "7" {
		t.Fatalf("session user not set, got %q", sess.User())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	user := activeUser(t, 7, authz.RoleUser, "correctpass")
	handler, sessionManager := newAuthHandler(t, &stubRepo{user: user})

	res, sess := doLogin(t, handler, sessionManager, `{"email":"user@test.local","password":"wrongpass1"}`)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if sess.User() != "" {
		t.Fatalf("session must not carry a user after failed login")
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser(t, 7, authz.RoleUser, "correctpass")
	user.IsActive = false
	handler, sessionManager := newAuthHandler(t, &stubRepo{user: user})

	res, _ := doLogin(t, handler, sessionManager, `{"email":"user@test.local","password":"correctpass"}`)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for inactive account, got %d", res.Code)
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{})
	res, _ := doLogin(t, handler, sessionManager, `{"email":"not-an-email","password":"short"}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestResolvePrincipal(t *testing.T) {
	user := activeUser(t, 7, authz.RoleAdmin, "correctpass")
	svc := auth.NewService(&stubRepo{user: user})

	principal, err := svc.ResolvePrincipal(context.Background(), 7)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if principal == nil || principal.ID != 7 || principal.Role != authz.RoleAdmin {
		t.Fatalf("unexpected principal %+v", principal)
	}

	user.IsActive = false
	principal, err = svc.ResolvePrincipal(context.Background(), 7)
	if err != nil {
		t.Fatalf("resolve inactive: %v", err)
	}
	if principal != nil {
		t.Fatalf("inactive account must not yield a principal")
	}
}

func TestPrincipalResolverFailsClosed(t *testing.T) {
	repo := &stubRepo{lookupErr: errors.New("db down")}
	svc := auth.NewService(repo)
	resolver := auth.PrincipalResolver{Service: svc}

	var seen *authz.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = authz.PrincipalFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	sess := &shared.Session{}
	sess.SetUser("7")
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	resolver.Middleware(next).ServeHTTP(httptest.NewRecorder(), req)
	if seen != nil {
		t.Fatalf("lookup failure must leave principal nil, got %+v", seen)
	}
}
