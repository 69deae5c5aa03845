package signup

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountStore is the storage contract the workflow depends on. The store is
// the serialization point for concurrent signups: conditional create runs
// inside the caller's transaction, so either both the account row and the
// token row are durably written, or neither is.
type AccountStore interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.IDB) error) error

	// CreateAccountWithTokenTx conditionally creates the account plus its
	// verification token. An existing email returns the stored row with
	// created=false and writes nothing, leaving no orphan token.
	CreateAccountWithTokenTx(ctx context.Context, tx bun.IDB, record *Account, token string) (*Account, bool, error)

	FindAccountByEmail(ctx context.Context, email string) (*Account, error)
	FindAccountByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Account, error)
	MarkAccountVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Account, error)

	FindVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*VerificationToken, error)
	DeleteVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) error
}

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	AccountStore
	Accounts() Accounts
	VerificationTokens() VerificationTokens
}

type mngr struct {
	db       *bun.DB
	accounts Accounts
	tokens   VerificationTokens
}

var _ RepositoryManager = (*mngr)(nil)

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:       db,
		accounts: NewAccountsRepository(db),
		tokens:   NewVerificationTokensRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	if m.tokens == nil {
		return errors.New("repository verificationTokens should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.IDB) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
			return f(ctx, tx)
		})
	}
}

func (m mngr) CreateAccountWithTokenTx(ctx context.Context, tx bun.IDB, record *Account, token string) (*Account, bool, error) {
	existing, err := m.accounts.GetByEmailTx(ctx, tx, record.Email)
	if err == nil {
		return existing, false, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, false, err
	}

	created, err := m.accounts.CreateTx(ctx, tx, record)
	if err != nil {
		return nil, false, err
	}

	if _, err := m.tokens.CreateTx(ctx, tx, &VerificationToken{
		AccountID: created.ID,
		Token:     token,
	}); err != nil {
		return nil, false, err
	}

	return created, true, nil
}

func (m mngr) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	return m.accounts.GetByEmail(ctx, email)
}

func (m mngr) FindAccountByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Account, error) {
	return m.accounts.GetByIDTx(ctx, tx, id.String())
}

func (m mngr) MarkAccountVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Account, error) {
	return m.accounts.MarkVerifiedTx(ctx, tx, id)
}

func (m mngr) FindVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*VerificationToken, error) {
	return m.tokens.GetByTokenTx(ctx, tx, token)
}

func (m mngr) DeleteVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) error {
	return m.tokens.DeleteByTokenTx(ctx, tx, token)
}

func (m mngr) Accounts() Accounts {
	return m.accounts
}

func (m mngr) VerificationTokens() VerificationTokens {
	return m.tokens
}
