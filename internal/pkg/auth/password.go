package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher stores passwords as bcrypt hashes.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash fails with ErrInvalidInput for passwords bcrypt cannot represent.
func (h *BcryptHasher) Hash(password string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domainErrors.ErrInvalidInput
		}
		return "", err
	}
	return string(encoded), nil
}

// Compare reports ErrInvalidCredentials on mismatch.
func (h *BcryptHasher) Compare(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrHashTooShort):
		return domainErrors.ErrInvalidCredentials
	default:
		return err
	}
}
