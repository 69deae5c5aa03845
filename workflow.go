package signup

import (
	"context"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// SessionTokenPrefix is prepended to issued session tokens; clients send the
// compact token back without it.
const SessionTokenPrefix = "JWT "

var passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,30}$`)

var passwordRule = validation.Match(passwordPattern).
	Error("must be 3 to 30 alphanumeric characters")

// SignUpInput is the signup payload.
type SignUpInput struct {
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	FirstName string `form:"first_name" json:"firstName"`
	LastName  string `form:"last_name" json:"lastName"`
}

// Validate runs the field rules in declared order and fails on the first
// violation, so the caller always sees a single deterministic message.
func (r SignUpInput) Validate() error {
	return validateFields([]fieldRules{
		{"email", r.Email, []validation.Rule{validation.Required, is.Email}},
		{"password", r.Password, []validation.Rule{validation.Required, passwordRule}},
		{"firstName", r.FirstName, []validation.Rule{validation.Required}},
		{"lastName", r.LastName, []validation.Rule{validation.Required}},
	})
}

// AuthenticateInput is the login payload.
type AuthenticateInput struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate applies the signup rules minus the name fields.
func (r AuthenticateInput) Validate() error {
	return validateFields([]fieldRules{
		{"email", r.Email, []validation.Rule{validation.Required, is.Email}},
		{"password", r.Password, []validation.Rule{validation.Required, passwordRule}},
	})
}

type fieldRules struct {
	name  string
	value any
	rules []validation.Rule
}

func validateFields(fields []fieldRules) error {
	for _, f := range fields {
		if err := validation.Validate(f.value, f.rules...); err != nil {
			return goerrors.New(fmt.Sprintf("%s: %s", f.name, err.Error()), goerrors.CategoryValidation).
				WithTextCode(TextCodeValidationFailed).
				WithCode(goerrors.CodeBadRequest)
		}
	}
	return nil
}

// SignUpResult is returned on successful signup.
type SignUpResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

// AuthResult is returned on successful login.
type AuthResult struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	Role    UserRole `json:"role"`
}

// Workflow orchestrates signup, login, and email confirmation over the
// injected store, hasher, token service, and mailer.
type Workflow struct {
	store   AccountStore
	hasher  PasswordHasher
	tokens  TokenService
	mailer  VerificationMailer
	logger  Logger
	timeout time.Duration
}

// NewWorkflow returns a Workflow with a 10s timeout on transactional units.
func NewWorkflow(store AccountStore, hasher PasswordHasher, tokens TokenService, mailer VerificationMailer) *Workflow {
	return &Workflow{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		mailer:  mailer,
		logger:  defLogger{},
		timeout: time.Second * 10,
	}
}

func (w *Workflow) WithLogger(logger Logger) *Workflow {
	if logger != nil {
		w.logger = logger
	}
	return w
}

// WithTimeout overrides the per operation deadline for storage and
// notification calls.
func (w *Workflow) WithTimeout(timeout time.Duration) *Workflow {
	if timeout > 0 {
		w.timeout = timeout
	}
	return w
}

// SignUp validates the input, hashes the password, and atomically persists
// the account together with a fresh verification token. The verification
// email is dispatched inside the transaction scope: a failed send rolls the
// whole signup back.
func (w *Workflow) SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during signup")
	default:
		return w.signUp(ctx, input)
	}
}

func (w *Workflow) signUp(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := w.hasher.HashPassword(input.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryValidation {
			return nil, richErr
		}
		w.logger.Error("SignUp failed to hash password", "error", err)
		return nil, asWorkflowError(err)
	}

	token, err := NewVerificationToken()
	if err != nil {
		w.logger.Error("SignUp failed to generate verification token", "error", err)
		return nil, asWorkflowError(err)
	}

	record := &Account{
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		CreatedBy:    input.Email,
		UpdatedBy:    input.Email,
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	var account *Account
	var created bool

	err = w.store.RunInTx(ctx, nil, func(ctx context.Context, tx bun.IDB) error {
		account, created, err = w.store.CreateAccountWithTokenTx(ctx, tx, record, token)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create account")
		}

		if !created {
			return nil
		}

		// A signup that cannot notify the holder of the address is a failed
		// signup, not a degraded success: the error below rolls back both
		// the account row and the token row.
		if err := w.mailer.SendVerificationEmail(ctx, account.Email, token); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send verification email")
		}

		return nil
	})

	if err != nil {
		w.logger.Error("SignUp transaction failed", "email", input.Email, "error", err)
		return nil, asWorkflowError(err)
	}

	if !created {
		return nil, ErrAccountExists
	}

	return &SignUpResult{
		Success: true,
		Message: fmt.Sprintf("%s account created successfully", account.Email),
		Email:   account.Email,
	}, nil
}

// Authenticate checks the credentials against a verified account and issues
// a session token bound to the account's email.
func (w *Workflow) Authenticate(ctx context.Context, input AuthenticateInput) (*AuthResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during authentication")
	default:
		return w.authenticate(ctx, input)
	}
}

func (w *Workflow) authenticate(ctx context.Context, input AuthenticateInput) (*AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	account, err := w.store.FindAccountByEmail(ctx, input.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAuthenticationFailed
		}
		w.logger.Error("Authenticate account lookup failed", "error", err)
		return nil, asWorkflowError(err)
	}

	if !account.Verified {
		return nil, ErrEmailNotVerified
	}

	if err := w.hasher.ComparePasswordAndHash(input.Password, account.PasswordHash); err != nil {
		return nil, ErrLoginFailed
	}

	token, err := w.tokens.Sign(account.Email, account.Role)
	if err != nil {
		w.logger.Error("Authenticate failed to sign session token", "error", err)
		return nil, asWorkflowError(err)
	}

	return &AuthResult{
		Success: true,
		Token:   SessionTokenPrefix + token,
		Role:    account.Role,
	}, nil
}

// ConfirmVerification flips the account referenced by the token to verified
// and consumes the token, in one transaction. The email must match the
// account the token was issued for.
func (w *Workflow) ConfirmVerification(ctx context.Context, token, email string) (*Account, error) {
	if err := validateFields([]fieldRules{
		{"token", token, []validation.Rule{validation.Required}},
		{"email", email, []validation.Rule{validation.Required, is.Email}},
	}); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	var account *Account

	err := w.store.RunInTx(ctx, nil, func(ctx context.Context, tx bun.IDB) error {
		record, err := w.store.FindVerificationTokenTx(ctx, tx, token)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrVerificationNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve verification token")
		}

		holder, err := w.store.FindAccountByIDTx(ctx, tx, record.AccountID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "verification token references missing account")
		}

		if holder.Email != email {
			return ErrVerificationNotFound
		}

		if holder.Verified {
			return ErrAlreadyVerified
		}

		account, err = w.store.MarkAccountVerifiedTx(ctx, tx, holder.ID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark account verified")
		}

		return w.store.DeleteVerificationTokenTx(ctx, tx, token)
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		w.logger.Error("ConfirmVerification transaction failed", "email", email, "error", err)
		return nil, asWorkflowError(err)
	}

	return account, nil
}
