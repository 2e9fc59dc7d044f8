package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// VerifyResult is the outcome of a password check. SuccessRehashNeeded means
// the password matched but was hashed with a weaker cost than currently
// configured; callers should treat it as success and may re-hash.
type VerifyResult int

const (
	VerifyFailed VerifyResult = iota
	VerifySuccess
	VerifySuccessRehashNeeded
)

// PasswordHasher is the one-way hash capability used by the identity service.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) VerifyResult
}

const DefaultBcryptCost = 12

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-backed hasher. A cost of 0 selects
// DefaultBcryptCost.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Verify(hash, plaintext string) VerifyResult {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return VerifyFailed
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err == nil && cost < h.cost {
		return VerifySuccessRehashNeeded
	}
	return VerifySuccess
}
