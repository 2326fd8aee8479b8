package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
)

// DefaultStoreTimeout bounds every store call that arrives without a deadline
const DefaultStoreTimeout = 5 * time.Second

var viewColumns = []string{"id", "name", "email", "created_at"}

type accounts struct {
	db      bun.IDB
	timeout time.Duration
	logger  Logger
}

var _ CredentialStore = (*accounts)(nil)

// AccountsOption configures the accounts repository
type AccountsOption func(*accounts)

// WithStoreTimeout sets the per call timeout
func WithStoreTimeout(timeout time.Duration) AccountsOption {
	return func(a *accounts) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithStoreLogger sets the logger
func WithStoreLogger(logger Logger) AccountsOption {
	return func(a *accounts) {
		a.logger = normalizeLogger(logger)
	}
}

// NewAccountsRepository returns a bun backed CredentialStore
func NewAccountsRepository(db bun.IDB, opts ...AccountsOption) CredentialStore {
	repo := &accounts{
		db:      db,
		timeout: DefaultStoreTimeout,
		logger:  defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo
}

func (a *accounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	record := &Account{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, a.mapError(err, "find account by email")
	}

	return record, nil
}

func (a *accounts) FindByID(ctx context.Context, id string) (*AccountView, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrAccountNotFound
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	record := &Account{}
	err = a.db.NewSelect().
		Model(record).
		Column(viewColumns...).
		Where("?TableAlias.id = ?", uid).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, a.mapError(err, "find account by id")
	}

	return record.View(), nil
}

func (a *accounts) Insert(ctx context.Context, record *Account) (*Account, error) {
	if record == nil {
		return nil, internalError(nil, "account record is required")
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	record.ID = uuid.New()
	record.Email = NormalizeEmail(record.Email)
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := a.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, a.mapError(err, "insert account")
	}

	return record, nil
}

func (a *accounts) UpdateEmail(ctx context.Context, id, email string) (*AccountView, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrAccountNotFound
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.db.NewUpdate().
		Model((*Account)(nil)).
		Set("email = ?", NormalizeEmail(email)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", uid).
		Exec(ctx)
	if err != nil {
		return nil, a.mapError(err, "update account email")
	}

	if err := ensureAffected(res); err != nil {
		return nil, a.mapError(err, "update account email")
	}

	return a.FindByID(ctx, uid.String())
}

func (a *accounts) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return ErrAccountNotFound
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.db.NewDelete().
		Model((*Account)(nil)).
		Where("id = ?", uid).
		Exec(ctx)
	if err != nil {
		return a.mapError(err, "delete account")
	}

	if err := ensureAffected(res); err != nil {
		return a.mapError(err, "delete account")
	}

	return nil
}

func (a *accounts) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *accounts) mapError(err error, operation string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrAccountNotFound
	case IsUniqueViolation(err):
		return ErrEmailTaken
	}

	a.logger.Error("store operation failed", "operation", operation, "error", err)
	return internalError(err, operation+" failed")
}

func ensureAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique constraint violation
// from postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
