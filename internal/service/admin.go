package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DannyJSullivan/card-inventory-api/internal/domain"
	"github.com/DannyJSullivan/card-inventory-api/internal/repository"
	"github.com/DannyJSullivan/card-inventory-api/pkg/database"
	apperrors "github.com/DannyJSullivan/card-inventory-api/pkg/errors"
)

// UserAdmin performs operator-only account changes from the CLI.
type UserAdmin struct {
	users  repository.UserRepository
	tx     database.Transactor
	logger *slog.Logger
}

// NewUserAdmin creates a new operator service.
func NewUserAdmin(users repository.UserRepository, tx database.Transactor, logger *slog.Logger) *UserAdmin {
	return &UserAdmin{users: users, tx: tx, logger: logger}
}

// SetActive enables or disables login-protected access for username.
func (a *UserAdmin) SetActive(ctx context.Context, username string, active bool) (*domain.User, error) {
	return a.apply(ctx, "is_active", username, active, a.users.SetActive)
}

// SetAdmin grants or revokes the admin flag for username.
func (a *UserAdmin) SetAdmin(ctx context.Context, username string, admin bool) (*domain.User, error) {
	return a.apply(ctx, "is_admin", username, admin, a.users.SetAdmin)
}

type flagSetter func(ctx context.Context, db database.DBTX, username string, value bool) (*domain.User, error)

func (a *UserAdmin) apply(ctx context.Context, flag, username string, value bool, set flagSetter) (*domain.User, error) {
	var user *domain.User
	err := a.tx.WithTx(ctx, func(ctx context.Context, db database.DBTX) error {
		u, err := set(ctx, db, username, value)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", username)
		}
		return nil, fmt.Errorf("set %s: %w", flag, err)
	}

	a.logger.InfoContext(ctx, "user flag changed",
		slog.String("username", username),
		slog.String("flag", flag),
		slog.Bool("value", value),
	)
	return user, nil
}
