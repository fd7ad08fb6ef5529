package security

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashingFailed = errors.New("password hashing failed")

const MinPasswordLen = 8

var (
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`\d`)
)

// PasswordHasher provides interface for password operations
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new password hasher using bcrypt
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePasswordStrength enforces the registration password policy:
// at least 8 characters with an upper-case letter, a lower-case letter
// and a digit.
func ValidatePasswordStrength(password string) error {
	if len(password) < MinPasswordLen {
		return errors.New("password must be at least 8 characters long")
	}
	if !upperRe.MatchString(password) {
		return errors.New("password must contain at least one upper-case letter")
	}
	if !lowerRe.MatchString(password) {
		return errors.New("password must contain at least one lower-case letter")
	}
	if !digitRe.MatchString(password) {
		return errors.New("password must contain at least one digit")
	}
	return nil
}

// IsStrongPassword is the validator-friendly form of ValidatePasswordStrength.
func IsStrongPassword(password string) bool {
	return ValidatePasswordStrength(password) == nil
}
