package signup_test

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	signup "github.com/signupkit/go-signup"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "validation maps to 422",
			err:  goerrors.New("email: cannot be blank", goerrors.CategoryValidation),
			want: fiber.StatusUnprocessableEntity,
		},
		{
			name: "duplicate account maps to 409",
			err:  signup.ErrAccountExists,
			want: fiber.StatusConflict,
		},
		{
			name: "unknown identity maps to 404",
			err:  signup.ErrAuthenticationFailed,
			want: fiber.StatusNotFound,
		},
		{
			name: "credential mismatch maps to 404",
			err:  signup.ErrLoginFailed,
			want: fiber.StatusNotFound,
		},
		{
			name: "unverified account maps to 404",
			err:  signup.ErrEmailNotVerified,
			want: fiber.StatusNotFound,
		},
		{
			name: "internal error maps to 500",
			err:  goerrors.New("db connection lost", goerrors.CategoryInternal),
			want: fiber.StatusInternalServerError,
		},
		{
			name: "plain error maps to 500",
			err:  errors.New("boom"),
			want: fiber.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, signup.StatusForError(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "conflict message passes through",
			err:  signup.ErrAccountExists,
			want: signup.MsgAccountExists,
		},
		{
			name: "auth message passes through",
			err:  signup.ErrLoginFailed,
			want: signup.MsgLoginFailed,
		},
		{
			name: "validation message passes through",
			err:  goerrors.New("email: must be a valid email address", goerrors.CategoryValidation),
			want: "email: must be a valid email address",
		},
		{
			name: "internal detail is hidden",
			err:  goerrors.New("dial tcp 10.0.0.5:5432: connection refused", goerrors.CategoryInternal),
			want: signup.MsgInternalError,
		},
		{
			name: "plain error is hidden",
			err:  errors.New("dial tcp: connection refused"),
			want: signup.MsgInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, signup.PublicMessage(tt.err))
		})
	}
}
