// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/delivery-admin/internal/core"
)

// LookupOptions widens a lookup. Soft deleted identities are invisible
// unless IncludeDeleted is set.
type LookupOptions struct {
	IncludeDeleted bool
}

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string, opts LookupOptions) (*User, error)
	GetByEmail(ctx context.Context, email string, opts LookupOptions) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	ConsumeVerificationToken(ctx context.Context, tokenHash string) (string, error)
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ConsumeResetToken(
		ctx context.Context,
		tokenHash, passwordHash string,
		now time.Time,
	) (string, error)
	HardDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

const userColumns = `id, email, first_name, last_name, password_hash, role, status,
	email_verified, verification_token_hash, reset_token_hash, reset_expires_at,
	version, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, password_hash,
		                   role, status, email_verified, verification_token_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING version, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.EmailVerified,
		user.VerificationTokenHash,
	).Scan(&user.Version, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
	opts LookupOptions,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1` + visibility(opts)

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
	opts LookupOptions,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1` + visibility(opts)

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// Update writes every mutable attribute in one statement guarded by the
// version the caller read. A concurrent writer that got there first turns
// this into core.ErrConflict.
func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET first_name = $3, last_name = $4, role = $5, status = $6,
		    email_verified = $7, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Version,
		user.FirstName,
		user.LastName,
		user.Role,
		user.Status,
		user.EmailVerified,
	).Scan(&user.Version, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r.missOrConflict(ctx, "update user", user.ID)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status <> 'deleted'`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

// ConsumeVerificationToken marks the owner verified and clears the token in
// the same statement, so a token redeems at most once.
func (r *repository) ConsumeVerificationToken(
	ctx context.Context,
	tokenHash string,
) (string, error) {
	query := `
		UPDATE users
		SET email_verified = TRUE, verification_token_hash = NULL,
		    version = version + 1, updated_at = NOW()
		WHERE verification_token_hash = $1 AND status <> 'deleted'
		RETURNING id`

	var id string
	err := r.db.GetContext(ctx, &id, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("consume verification token: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return "", fmt.Errorf("consume verification token: %w", err)
	}

	return id, nil
}

func (r *repository) SetResetToken(
	ctx context.Context,
	id, tokenHash string,
	expiresAt time.Time,
) error {
	query := `
		UPDATE users
		SET reset_token_hash = $2, reset_expires_at = $3, updated_at = NOW()
		WHERE id = $1 AND status <> 'deleted'`

	return r.execOne(ctx, "set reset token", query, id, tokenHash, expiresAt)
}

// ConsumeResetToken swaps in the new password hash only while the token is
// unexpired at now, clearing it in the same statement.
func (r *repository) ConsumeResetToken(
	ctx context.Context,
	tokenHash, passwordHash string,
	now time.Time,
) (string, error) {
	query := `
		UPDATE users
		SET password_hash = $2, reset_token_hash = NULL, reset_expires_at = NULL,
		    version = version + 1, updated_at = NOW()
		WHERE reset_token_hash = $1 AND reset_expires_at > $3
		  AND status <> 'deleted'
		RETURNING id`

	var id string
	err := r.db.GetContext(ctx, &id, query, tokenHash, passwordHash, now)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("consume reset token: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return "", fmt.Errorf("consume reset token: %w", err)
	}

	return id, nil
}

func (r *repository) HardDelete(ctx context.Context, id string) error {
	return r.execOne(ctx, "hard delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if !params.IncludeDeleted {
		conditions = append(conditions, "status <> 'deleted'")
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	var rows []struct {
		Status Status `db:"status"`
		Count  int    `db:"count"`
	}

	query := `SELECT status, COUNT(*) AS count FROM users GROUP BY status`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count users by status: %w", err)
	}

	counts := make(map[Status]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func (r *repository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func (r *repository) missOrConflict(ctx context.Context, op, id string) error {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if exists {
		return fmt.Errorf("%s: %w", op, core.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, core.ErrNotFound)
}

func visibility(opts LookupOptions) string {
	if opts.IncludeDeleted {
		return ""
	}
	return ` AND status <> 'deleted'`
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
