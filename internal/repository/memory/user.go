// Package memory provides an in-process UserRepository used by service and
// handler tests. It ignores the session argument and enforces the same
// uniqueness rules as the PostgreSQL schema.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DannyJSullivan/card-inventory-api/internal/domain"
	"github.com/DannyJSullivan/card-inventory-api/pkg/database"
	apperrors "github.com/DannyJSullivan/card-inventory-api/pkg/errors"
)

// UserRepository keeps users in maps keyed by username and email.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]*domain.User // by username
	emails map[string]string       // email -> username
	now    func() time.Time
}

// NewUserRepository returns an empty in-memory store.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
		now:    time.Now,
	}
}

func (r *UserRepository) GetByUsername(_ context.Context, _ database.DBTX, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, _ database.DBTX, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	username, ok := r.emails[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *r.users[username]
	return &cp, nil
}

func (r *UserRepository) Create(_ context.Context, _ database.DBTX, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.users[u.Username]; taken {
		return domain.Conflict()
	}
	if _, taken := r.emails[u.Email]; taken {
		return domain.Conflict()
	}

	r.nextID++
	now := r.now().UTC()
	u.ID, u.CreatedAt, u.UpdatedAt = r.nextID, now, now

	cp := *u
	r.users[u.Username] = &cp
	r.emails[u.Email] = u.Username
	return nil
}

func (r *UserRepository) SetActive(_ context.Context, _ database.DBTX, username string, active bool) (*domain.User, error) {
	return r.update(username, func(u *domain.User) { u.IsActive = active })
}

func (r *UserRepository) SetAdmin(_ context.Context, _ database.DBTX, username string, admin bool) (*domain.User, error) {
	return r.update(username, func(u *domain.User) { u.IsAdmin = admin })
}

func (r *UserRepository) update(username string, mutate func(*domain.User)) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	mutate(u)
	u.UpdatedAt = r.now().UTC()
	cp := *u
	return &cp, nil
}

// Transactor runs fn directly with a nil session. It counts calls so tests
// can assert that each service operation used exactly one session.
type Transactor struct {
	mu    sync.Mutex
	calls int
}

func (t *Transactor) WithTx(ctx context.Context, fn func(ctx context.Context, tx database.DBTX) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx, nil)
}

// Calls returns how many sessions have been opened.
func (t *Transactor) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
