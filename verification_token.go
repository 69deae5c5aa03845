package signup

import (
	"crypto/rand"
	"encoding/base64"

	goerrors "github.com/goliatone/go-errors"
)

// VerificationTokenBytes is the entropy carried by a verification token.
const VerificationTokenBytes = 16

// NewVerificationToken returns an opaque URL-safe token backed by
// VerificationTokenBytes bytes of cryptographically secure randomness.
func NewVerificationToken() (string, error) {
	buf := make([]byte, VerificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate verification token")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
