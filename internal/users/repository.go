package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helmsman-kit/helmsman/internal/authz"
	"github.com/helmsman-kit/helmsman/internal/platform/db"
	"github.com/helmsman-kit/helmsman/internal/shared"
)

// CreateParams carries the fields persisted for a new account.
type CreateParams struct {
	Email        string
	Name         string
	PasswordHash string
	Role         authz.Role
}

// UpdateParams carries the mutable account fields.
type UpdateParams struct {
	Email string
	Name  string
	Role  authz.Role
}

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]User, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, params CreateParams) (User, error)
	Update(ctx context.Context, id int64, params UpdateParams) (User, error)
	Delete(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
	CountActive(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role authz.Role) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, name, role, is_active, created_at, updated_at`

// List returns a page of users ordered by id.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the total number of accounts.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// GetByID fetches a single account.
func (r *Repository) GetByID(ctx context.Context, id int64) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// Create inserts a new account.
func (r *Repository) Create(ctx context.Context, params CreateParams) (User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW()) RETURNING `+userColumns,
		strings.ToLower(strings.TrimSpace(params.Email)), strings.TrimSpace(params.Name), params.PasswordHash, string(params.Role))
	user, err := scanUser(row)
	if err != nil {
		return User{}, mapUniqueEmail(err)
	}
	return user, nil
}

// Update rewrites the mutable account fields.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateParams) (User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET email = $2, name = $3, role = $4, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
		id, strings.ToLower(strings.TrimSpace(params.Email)), strings.TrimSpace(params.Name), string(params.Role))
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, mapUniqueEmail(err)
	}
	return user, nil
}

// Delete removes an account.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Deactivate soft-closes an account without removing its rows.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	// Deactivation and session revocation land together or not at all:
	// a closed account must not keep a live session.
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		_, err = tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, id)
		return err
	})
}

// CountActive returns the number of active accounts.
func (r *Repository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active`).Scan(&n)
	return n, err
}

// CountByRole returns the number of accounts holding the role.
func (r *Repository) CountByRole(ctx context.Context, role authz.Role) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&n)
	return n, err
}

// CountCreatedSince returns the number of accounts created after the cutoff.
func (r *Repository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	var role string
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return User{}, err
	}
	user.Role = authz.ParseRole(role)
	return user, nil
}

func mapUniqueEmail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_users_email" {
		return shared.ErrDuplicateEmail
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
