package signup

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// VerificationTokens is the verification token repository.
type VerificationTokens interface {
	repository.Repository[*VerificationToken]

	GetByToken(ctx context.Context, token string) (*VerificationToken, error)
	GetByTokenTx(ctx context.Context, tx bun.IDB, token string) (*VerificationToken, error)

	Create(ctx context.Context, record *VerificationToken, criteria ...repository.InsertCriteria) (*VerificationToken, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *VerificationToken, criteria ...repository.InsertCriteria) (*VerificationToken, error)

	DeleteByTokenTx(ctx context.Context, tx bun.IDB, token string) error
	CountForAccount(ctx context.Context, accountID uuid.UUID) (int, error)
}

type verificationTokens struct {
	repository.Repository[*VerificationToken]
	db *bun.DB
}

var (
	_ VerificationTokens                        = (*verificationTokens)(nil)
	_ repository.Repository[*VerificationToken] = (*verificationTokens)(nil)
)

// NewVerificationTokensRepository builds the bun backed token repository.
func NewVerificationTokensRepository(db *bun.DB) VerificationTokens {
	repo := repository.NewRepository[*VerificationToken](db, repository.ModelHandlers[*VerificationToken]{
		NewRecord: func() *VerificationToken { return &VerificationToken{} },
		GetID: func(t *VerificationToken) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *VerificationToken, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &verificationTokens{
		Repository: repo,
		db:         db,
	}
}

func (r *verificationTokens) GetByToken(ctx context.Context, token string) (*VerificationToken, error) {
	return r.GetByTokenTx(ctx, r.db, token)
}

func (r *verificationTokens) GetByTokenTx(ctx context.Context, tx bun.IDB, token string) (*VerificationToken, error) {
	record := &VerificationToken{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"token": token,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *verificationTokens) Create(ctx context.Context, record *VerificationToken, criteria ...repository.InsertCriteria) (*VerificationToken, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *verificationTokens) CreateTx(ctx context.Context, tx bun.IDB, record *VerificationToken, criteria ...repository.InsertCriteria) (*VerificationToken, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *verificationTokens) DeleteByTokenTx(ctx context.Context, tx bun.IDB, token string) error {
	_, err := tx.NewDelete().
		Model((*VerificationToken)(nil)).
		Where("token = ?", token).
		Exec(ctx)
	return err
}

// CountForAccount reports how many tokens reference the given account.
func (r *verificationTokens) CountForAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	return r.db.NewSelect().
		Model((*VerificationToken)(nil)).
		Where("account_id = ?", accountID).
		Count(ctx)
}
