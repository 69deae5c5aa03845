package signup

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to workflow errors so callers can switch on them
// without string matching messages.
const (
	TextCodeValidationFailed     = "VALIDATION_FAILED"
	TextCodeAccountExists        = "ACCOUNT_EXISTS"
	TextCodeAuthFailed           = "AUTH_FAILED"
	TextCodeVerificationFailed   = "VERIFICATION_FAILED"
	TextCodeAlreadyVerified      = "ALREADY_VERIFIED"
	TextCodeEmptyPassword        = "EMPTY_PASSWORD"
	TextCodePasswordMismatch     = "PASSWORD_MISMATCH"
	TextCodeTokenExpired         = "TOKEN_EXPIRED"
	TextCodeTokenMalformed       = "TOKEN_MALFORMED"
	TextCodeTokenBadSignature    = "TOKEN_BAD_SIGNATURE"
	TextCodeInternalError        = "INTERNAL_ERROR"
)

// Caller-facing messages. These are wire format: clients match on them.
const (
	MsgAccountExists        = "User with email address already exists"
	MsgAuthenticationFailed = "Authentication failed!"
	MsgVerifyEmail          = "Please verify your Email!"
	MsgLoginFailed          = "Login failed!"
	MsgVerificationFailed   = "Verification failed!"
	MsgInternalError        = "There was an error!"
)

// ErrAccountExists is returned when a signup hits an already registered email.
var ErrAccountExists = goerrors.New(MsgAccountExists, goerrors.CategoryConflict).
	WithTextCode(TextCodeAccountExists).
	WithCode(goerrors.CodeConflict)

// ErrAuthenticationFailed is the generic failure for unknown identities. The
// message is deliberately low-information to limit account enumeration.
var ErrAuthenticationFailed = goerrors.New(MsgAuthenticationFailed, goerrors.CategoryAuth).
	WithTextCode(TextCodeAuthFailed).
	WithCode(goerrors.CodeNotFound)

// ErrEmailNotVerified blocks login for accounts that never confirmed their
// email. Distinguishable from ErrAuthenticationFailed on purpose.
var ErrEmailNotVerified = goerrors.New(MsgVerifyEmail, goerrors.CategoryAuth).
	WithTextCode(TextCodeAuthFailed).
	WithCode(goerrors.CodeNotFound)

// ErrLoginFailed is returned on a credential mismatch.
var ErrLoginFailed = goerrors.New(MsgLoginFailed, goerrors.CategoryAuth).
	WithTextCode(TextCodeAuthFailed).
	WithCode(goerrors.CodeNotFound)

// ErrVerificationNotFound is returned when a verification token is unknown or
// does not belong to the presented email.
var ErrVerificationNotFound = goerrors.New(MsgVerificationFailed, goerrors.CategoryAuth).
	WithTextCode(TextCodeVerificationFailed).
	WithCode(goerrors.CodeNotFound)

// ErrAlreadyVerified is returned when confirming an account that already
// completed the transition.
var ErrAlreadyVerified = goerrors.New("account is already verified", goerrors.CategoryConflict).
	WithTextCode(TextCodeAlreadyVerified).
	WithCode(goerrors.CodeConflict)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch error.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for session tokens past their exp claim.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for session tokens that cannot be parsed.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenInvalidSignature is returned for session tokens whose signature
// does not verify against the configured signing key.
var ErrTokenInvalidSignature = goerrors.New("token signature is invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature).
	WithCode(goerrors.CodeUnauthorized)

// StatusForError maps workflow error categories to HTTP status codes:
// validation 422, conflict 409, auth 404, anything else 500. The auth class
// replies 404, the contract clients already match on.
func StatusForError(err error) int {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return fiber.StatusInternalServerError
	}

	switch richErr.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusUnprocessableEntity
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryAuth:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to echo to a caller. Internal errors
// collapse to a generic message; their cause stays in server logs.
func PublicMessage(err error) string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return MsgInternalError
	}

	switch richErr.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput,
		goerrors.CategoryConflict, goerrors.CategoryAuth:
		return richErr.Message
	default:
		return MsgInternalError
	}
}

// asWorkflowError normalizes any error that escapes a workflow step: rich
// errors pass through, everything else becomes an internal error.
func asWorkflowError(err error) error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, MsgInternalError).
		WithTextCode(TextCodeInternalError)
}
