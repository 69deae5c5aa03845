package signup_test

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	signup "github.com/signupkit/go-signup"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// memoryStore implements signup.AccountStore over plain maps. RunInTx takes
// a snapshot before running the unit of work and restores it on error, so
// rollback semantics match the real store.
type memoryStore struct {
	accounts map[string]*signup.Account
	tokens   map[string]*signup.VerificationToken

	// createErr simulates a storage failure inside the transaction.
	createErr error
}

var _ signup.AccountStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts: map[string]*signup.Account{},
		tokens:   map[string]*signup.VerificationToken{},
	}
}

func (s *memoryStore) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.IDB) error) error {
	accounts := make(map[string]*signup.Account, len(s.accounts))
	for k, v := range s.accounts {
		clone := *v
		accounts[k] = &clone
	}
	tokens := make(map[string]*signup.VerificationToken, len(s.tokens))
	for k, v := range s.tokens {
		clone := *v
		tokens[k] = &clone
	}

	if err := f(ctx, nil); err != nil {
		s.accounts = accounts
		s.tokens = tokens
		return err
	}

	return nil
}

func (s *memoryStore) CreateAccountWithTokenTx(ctx context.Context, tx bun.IDB, record *signup.Account, token string) (*signup.Account, bool, error) {
	if existing, ok := s.accounts[record.Email]; ok {
		return existing, false, nil
	}

	if s.createErr != nil {
		return nil, false, s.createErr
	}

	clone := *record
	clone.EnsureDefaults()
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}

	s.accounts[clone.Email] = &clone
	s.tokens[token] = &signup.VerificationToken{
		ID:        uuid.New(),
		AccountID: clone.ID,
		Token:     token,
	}

	return &clone, true, nil
}

func (s *memoryStore) FindAccountByEmail(ctx context.Context, email string) (*signup.Account, error) {
	if account, ok := s.accounts[email]; ok {
		return account, nil
	}
	return nil, repository.NewRecordNotFound()
}

func (s *memoryStore) FindAccountByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*signup.Account, error) {
	for _, account := range s.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (s *memoryStore) MarkAccountVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*signup.Account, error) {
	for _, account := range s.accounts {
		if account.ID == id && !account.Verified {
			account.Verified = true
			return account, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (s *memoryStore) FindVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*signup.VerificationToken, error) {
	if record, ok := s.tokens[token]; ok {
		return record, nil
	}
	return nil, repository.NewRecordNotFound()
}

func (s *memoryStore) DeleteVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) error {
	delete(s.tokens, token)
	return nil
}

func (s *memoryStore) tokenCount() int {
	return len(s.tokens)
}

func (s *memoryStore) accountCount() int {
	return len(s.accounts)
}

func (s *memoryStore) tokenFor(accountID uuid.UUID) *signup.VerificationToken {
	for _, record := range s.tokens {
		if record.AccountID == accountID {
			return record
		}
	}
	return nil
}

// MockMailer implements signup.VerificationMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

// MockHasher implements signup.PasswordHasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) ComparePasswordAndHash(password, hash string) error {
	args := m.Called(password, hash)
	return args.Error(0)
}
