package repository

import (
	"context"

	"github.com/DannyJSullivan/card-inventory-api/internal/domain"
	"github.com/DannyJSullivan/card-inventory-api/pkg/database"
)

// UserRepository persists users. Every method runs on the session passed in
// by the caller; implementations never begin, commit or release sessions.
type UserRepository interface {
	// GetByUsername returns apperrors.ErrNotFound when no user matches.
	GetByUsername(ctx context.Context, db database.DBTX, username string) (*domain.User, error)

	// GetByEmail returns apperrors.ErrNotFound when no user matches.
	GetByEmail(ctx context.Context, db database.DBTX, email string) (*domain.User, error)

	// Create inserts user and fills its ID, CreatedAt and UpdatedAt. A
	// username or email collision returns domain.Conflict().
	Create(ctx context.Context, db database.DBTX, user *domain.User) error

	// SetActive changes the active flag and returns the updated user.
	SetActive(ctx context.Context, db database.DBTX, username string, active bool) (*domain.User, error)

	// SetAdmin changes the admin flag and returns the updated user.
	SetAdmin(ctx context.Context, db database.DBTX, username string, admin bool) (*domain.User, error)
}
