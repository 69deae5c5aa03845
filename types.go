package signup

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the package needs. Inject your own
// via the WithLogger builders; defLogger prints to stdout.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the process-wide options consumed at startup. Values are read
// once during construction and never mutated.
type Config interface {
	// GetSigningKey returns the session token signing secret. Never log it.
	GetSigningKey() string
	// GetTokenExpiration is the session token lifetime in hours. Zero issues
	// tokens without an exp claim.
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	// GetEnvironment selects hashing cost parameters ("development" relaxes
	// the bcrypt cost).
	GetEnvironment() string
	// GetBaseURL is the public URL verification links are built against.
	GetBaseURL() string
}

// PasswordHasher one-way transforms a plaintext secret into a storable hash
// and verifies a plaintext secret against a stored hash.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// VerificationMailer dispatches the email carrying the verification link.
// A send failure fails the enclosing signup.
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SIGNUP "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SIGNUP "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SIGNUP "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SIGNUP "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
