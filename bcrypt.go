package signup

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// EnvDevelopment relaxes hashing cost so local runs and tests stay fast.
const EnvDevelopment = "development"

// defaultBcryptCost is the cost used outside development.
const defaultBcryptCost = 10

// BcryptHasher hashes and verifies passwords with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher returns a hasher with the given cost. Costs outside the
// bcrypt range fall back to the default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// HasherForEnvironment picks the hashing cost once at startup; the result is
// injected into the workflow so core logic never consults the environment.
func HasherForEnvironment(env string) *BcryptHasher {
	if env == EnvDevelopment {
		return NewBcryptHasher(bcrypt.MinCost)
	}
	return NewBcryptHasher(defaultBcryptCost)
}

// HashPassword will generate a password hash
func (h *BcryptHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	return string(hash), nil
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. A malformed stored hash surfaces as an error, never as
// a match. bcrypt's comparison is constant time.
func (h *BcryptHasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to compare password hash")
	}
	return nil
}
