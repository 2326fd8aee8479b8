package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	DB() *bun.DB
	Accounts() CredentialStore
	RunInTx(ctx context.Context, fn func(ctx context.Context, accounts CredentialStore) error) error
}

type mngr struct {
	db       *bun.DB
	timeout  time.Duration
	logger   Logger
	accounts CredentialStore
}

// NewRepositoryManager wires the repositories on top of db
func NewRepositoryManager(db *bun.DB, timeout time.Duration, logger Logger) RepositoryManager {
	var accounts CredentialStore
	if db != nil {
		accounts = NewAccountsRepository(db,
			WithStoreTimeout(timeout),
			WithStoreLogger(logger),
		)
	}

	return &mngr{
		db:       db,
		timeout:  timeout,
		logger:   normalizeLogger(logger),
		accounts: accounts,
	}
}

func (m mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository database should be initialized")
	}

	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) DB() *bun.DB {
	return m.db
}

func (m mngr) Accounts() CredentialStore {
	return m.accounts
}

// RunInTx runs fn with an accounts repository bound to a transaction. The
// transaction is rolled back when fn returns an error.
func (m mngr) RunInTx(ctx context.Context, fn func(ctx context.Context, accounts CredentialStore) error) error {
	return m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, NewAccountsRepository(tx,
			WithStoreTimeout(m.timeout),
			WithStoreLogger(m.logger),
		))
	})
}
