package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt reads. Longer passwords never
// verify, since bcrypt would otherwise ignore everything past this length.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords with bcrypt. It is immutable
// after construction and safe for concurrent use.
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher returns a hasher using the given bcrypt cost.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// Hash returns a salted bcrypt hash of plaintext. Each call uses a fresh salt.
// It fails for inputs longer than 72 bytes.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. Malformed or non-bcrypt
// hashes and inputs longer than MaxPasswordBytes never match.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	if len(plaintext) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Burn performs a comparison of the same cost as Verify against a fixed hash.
// Login calls it for unknown usernames so both rejection paths take similar time.
func (h *PasswordHasher) Burn(plaintext string) {
	if len(plaintext) > MaxPasswordBytes {
		return
	}
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}
