package users

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/helmsman-kit/helmsman/internal/audit"
	"github.com/helmsman-kit/helmsman/internal/authz"
	"github.com/helmsman-kit/helmsman/internal/platform/httpx"
	"github.com/helmsman-kit/helmsman/internal/shared"
)

// Auditor records user-management mutations.
type Auditor interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// CreateInput carries a create-user request.
type CreateInput struct {
	Email    string
	Name     string
	Password string
	Role     authz.Role
}

// UpdateInput carries an edit-user request. A nil Role means the role
// field was absent from the payload and keeps its higher gate closed.
type UpdateInput struct {
	Email string
	Name  string
	Role  *authz.Role
}

// ProfileInput carries a self-service profile edit.
type ProfileInput struct {
	Email string
	Name  string
}

// Service handles user management business logic. Every operation
// takes the acting principal explicitly and decides authorization
// before touching the repository.
type Service struct {
	repo   RepositoryPort
	audit  Auditor
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, auditor Auditor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: auditor, logger: logger}
}

// List returns a page of users. Requires the viewUsers preset.
func (s *Service) List(ctx context.Context, p *authz.Principal, page, perPage int) ([]User, shared.Pagination, error) {
	if !authz.HasPermission(p, authz.PresetFor(authz.ActionViewUsers, 0)) {
		return nil, shared.Pagination{}, deny(p)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	pagination := shared.NewPagination(page, perPage, total)
	offset := (pagination.Page - 1) * pagination.PerPage
	list, err := s.repo.List(ctx, pagination.PerPage, offset)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, pagination, nil
}

// Get returns a single account. The actor must be able to manage the
// target, or be the target itself.
func (s *Service) Get(ctx context.Context, p *authz.Principal, id int64) (User, error) {
	if p == nil {
		return User{}, httpx.ErrUnauthorized
	}
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if !authz.CanManageUser(p, target.ID, target.Role) {
		return User{}, httpx.ErrForbidden
	}
	return target, nil
}

// Create provisions a new account. Admin only.
func (s *Service) Create(ctx context.Context, p *authz.Principal, input CreateInput) (User, error) {
	if !authz.HasPermission(p, authz.PresetFor(authz.ActionCreateUser, 0)) {
		return User{}, deny(p)
	}
	role := input.Role
	if role == "" {
		role = authz.RoleUser
	}
	if !role.Valid() {
		return User{}, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, input.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.Create(ctx, CreateParams{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return User{}, err
	}
	s.record(ctx, p, "users.create", user.ID, map[string]any{"role": string(user.Role)})
	return user, nil
}

// Update edits an account. The base gate is the editUser preset with
// the self override; on top of it the relational rule, and on top of
// that the admin-only gate when the payload changes the role field.
func (s *Service) Update(ctx context.Context, p *authz.Principal, id int64, input UpdateInput) (User, error) {
	if !authz.HasPermission(p, authz.PresetFor(authz.ActionEditUser, id)) {
		return User{}, deny(p)
	}
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if !authz.CanEditUser(p, target.ID, target.Role) {
		return User{}, httpx.ErrForbidden
	}
	params := UpdateParams{Email: input.Email, Name: input.Name, Role: target.Role}
	roleChanged := false
	if input.Role != nil && *input.Role != target.Role {
		if !input.Role.Valid() {
			return User{}, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, *input.Role)
		}
		if !authz.CanChangeRole(p) {
			return User{}, httpx.ErrForbidden
		}
		params.Role = *input.Role
		roleChanged = true
	}
	user, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return User{}, err
	}
	meta := map[string]any{"role_changed": roleChanged}
	if roleChanged {
		meta["old_role"] = string(target.Role)
		meta["new_role"] = string(user.Role)
	}
	s.record(ctx, p, "users.update", user.ID, meta)
	return user, nil
}

// Delete removes an account. Admin only and never the actor's own
// account; the relational rule keeps self-delete closed even though
// the preset alone would let an admin through.
func (s *Service) Delete(ctx context.Context, p *authz.Principal, id int64) error {
	if !authz.HasPermission(p, authz.PresetFor(authz.ActionDeleteUser, 0)) {
		return deny(p)
	}
	if !authz.CanDeleteUser(p, id) {
		return httpx.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, p, "users.delete", id, nil)
	return nil
}

// UpdateProfile edits the actor's own account. Self-only, no role
// floor, and the role field is not reachable through this path.
func (s *Service) UpdateProfile(ctx context.Context, p *authz.Principal, input ProfileInput) (User, error) {
	if p == nil {
		return User{}, httpx.ErrUnauthorized
	}
	if !authz.HasPermission(p, authz.PresetFor(authz.ActionEditOwnProfile, p.ID)) {
		return User{}, httpx.ErrForbidden
	}
	target, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.Update(ctx, p.ID, UpdateParams{Email: input.Email, Name: input.Name, Role: target.Role})
	if err != nil {
		return User{}, err
	}
	s.record(ctx, p, "profile.update", user.ID, nil)
	return user, nil
}

// CloseOwnAccount deactivates the actor's own account. This is the
// self-service counterpart to Delete: it passes through the
// deleteOwnAccount preset, which allows self, while the admin delete
// path never does. The two rules serve different call sites and stay
// separate.
func (s *Service) CloseOwnAccount(ctx context.Context, p *authz.Principal) error {
	if p == nil {
		return httpx.ErrUnauthorized
	}
	if !authz.HasPermission(p, authz.PresetFor(authz.ActionDeleteOwnAccount, p.ID)) {
		return httpx.ErrForbidden
	}
	if err := s.repo.Deactivate(ctx, p.ID); err != nil {
		return err
	}
	s.record(ctx, p, "profile.close", p.ID, nil)
	return nil
}

// StatsWindow is how far back recent signups are counted.
const StatsWindow = 30 * 24 * time.Hour

// Stats returns dashboard aggregates, fetched in parallel.
func (s *Service) Stats(ctx context.Context, p *authz.Principal) (Stats, error) {
	if !authz.HasPermission(p, authz.PresetFor(authz.ActionViewUsers, 0)) {
		return Stats{}, deny(p)
	}
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Total, err = s.repo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Active, err = s.repo.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Admins, err = s.repo.CountByRole(gctx, authz.RoleAdmin)
		return err
	})
	g.Go(func() (err error) {
		stats.Moderators, err = s.repo.CountByRole(gctx, authz.RoleModerator)
		return err
	})
	g.Go(func() (err error) {
		stats.Users, err = s.repo.CountByRole(gctx, authz.RoleUser)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentSignups, err = s.repo.CountCreatedSince(gctx, time.Now().Add(-StatsWindow))
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *Service) record(ctx context.Context, p *authz.Principal, action string, targetID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := audit.Entry{
		ActorID:  p.ID,
		Action:   action,
		Entity:   "users",
		EntityID: fmt.Sprintf("%d", targetID),
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("record audit entry", slog.String("action", action), slog.Any("error", err))
	}
}

// deny maps a failed preset check onto the right sentinel: missing
// principal is unauthorized, everything else forbidden.
func deny(p *authz.Principal) error {
	if p == nil {
		return httpx.ErrUnauthorized
	}
	return httpx.ErrForbidden
}
