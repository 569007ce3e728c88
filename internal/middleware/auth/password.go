package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the work factor used when none is configured (10 rounds).
const DefaultCost = bcrypt.DefaultCost

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given work factor.
// the cost trades registration latency against brute-force resistance
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash creates a salted bcrypt hash from the given plaintext password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify reports whether password matches the stored hash.
// The comparison is constant time inside bcrypt.
func (h *PasswordHasher) Verify(password, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// Cost returns the configured work factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}
