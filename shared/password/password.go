package password

import (
	"errors"
	"fmt"
	"todolist/config"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default cost for bcrypt hashing
	DefaultCost = bcrypt.DefaultCost
	// MaxLength is the longest input bcrypt accepts, in bytes.
	MaxLength = 72
)

var (
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	ErrHashingPassword = errors.New("error hashing password")
)

// Hasher turns plaintext passwords into stored hashes and checks them back.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type bcryptHasher struct {
	cost int
}

// New returns a bcrypt Hasher using SECURITY_BCRYPT_COST, or DefaultCost when unset or out of range.
func New(cfg *config.Config) Hasher {
	return NewWithCost(cfg.Security.BcryptCost)
}

func NewWithCost(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted bcrypt hash of the password.
func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	if len(plaintext) > MaxLength {
		return "", ErrPasswordTooLong
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashingPassword, err)
	}

	return string(bytes), nil
}

// Verify reports whether plaintext matches hash. Malformed hashes never match.
func (h *bcryptHasher) Verify(plaintext, hash string) bool {
	if plaintext == "" || hash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IsInvalidInput reports whether err means the caller supplied an unusable password.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrEmptyPassword) || errors.Is(err, ErrPasswordTooLong)
}
