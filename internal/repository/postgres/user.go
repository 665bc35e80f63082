package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DannyJSullivan/card-inventory-api/internal/domain"
	"github.com/DannyJSullivan/card-inventory-api/pkg/database"
	apperrors "github.com/DannyJSullivan/card-inventory-api/pkg/errors"
)

const userColumns = `id, username, email, password_hash, is_active, is_admin, created_at, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct{}

// NewUserRepository creates a PostgreSQL-backed user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByUsername retrieves a user by exact username.
func (r *UserRepository) GetByUsername(ctx context.Context, db database.DBTX, username string) (_ *domain.User, err error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	ctx, end := database.TraceQuery(ctx, "users.get_by_username", query)
	defer func() { end(err) }()

	return scanUser(db.QueryRow(ctx, query, username))
}

// GetByEmail retrieves a user by exact email.
func (r *UserRepository) GetByEmail(ctx context.Context, db database.DBTX, email string) (_ *domain.User, err error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	ctx, end := database.TraceQuery(ctx, "users.get_by_email", query)
	defer func() { end(err) }()

	return scanUser(db.QueryRow(ctx, query, email))
}

// Create inserts u and fills the database-assigned fields.
func (r *UserRepository) Create(ctx context.Context, db database.DBTX, u *domain.User) (err error) {
	query := `
		INSERT INTO users (username, email, password_hash, is_active, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	ctx, end := database.TraceQuery(ctx, "users.create", query)
	defer func() { end(err) }()

	err = db.QueryRow(ctx, query, u.Username, u.Email, u.PasswordHash, u.IsActive, u.IsAdmin).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict()
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// SetActive updates is_active for username.
func (r *UserRepository) SetActive(ctx context.Context, db database.DBTX, username string, active bool) (_ *domain.User, err error) {
	query := `
		UPDATE users SET is_active = $2, updated_at = NOW()
		WHERE username = $1
		RETURNING ` + userColumns

	ctx, end := database.TraceQuery(ctx, "users.set_active", query)
	defer func() { end(err) }()

	return scanUser(db.QueryRow(ctx, query, username, active))
}

// SetAdmin updates is_admin for username.
func (r *UserRepository) SetAdmin(ctx context.Context, db database.DBTX, username string, admin bool) (_ *domain.User, err error) {
	query := `
		UPDATE users SET is_admin = $2, updated_at = NOW()
		WHERE username = $1
		RETURNING ` + userColumns

	ctx, end := database.TraceQuery(ctx, "users.set_admin", query)
	defer func() { end(err) }()

	return scanUser(db.QueryRow(ctx, query, username, admin))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
