package auth_test

import (
	"context"
	"regexp"
	"testing"

	auth "github.com/goliatone/go-auth-service"
	"github.com/goliatone/go-auth-service/migrations"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// MockCredentialStore implements auth.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	args := m.Called(ctx, email)
	account, _ := args.Get(0).(*auth.Account)
	return account, args.Error(1)
}

func (m *MockCredentialStore) FindByID(ctx context.Context, id string) (*auth.AccountView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*auth.AccountView)
	return view, args.Error(1)
}

func (m *MockCredentialStore) Insert(ctx context.Context, account *auth.Account) (*auth.Account, error) {
	args := m.Called(ctx, account)
	out, _ := args.Get(0).(*auth.Account)
	return out, args.Error(1)
}

func (m *MockCredentialStore) UpdateEmail(ctx context.Context, id, email string) (*auth.AccountView, error) {
	args := m.Called(ctx, id, email)
	view, _ := args.Get(0).(*auth.AccountView)
	return view, args.Error(1)
}

func (m *MockCredentialStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenCodec implements auth.TokenCodec
type MockTokenCodec struct {
	mock.Mock
}

func (m *MockTokenCodec) Issue(claims auth.Claims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenCodec) Verify(token string) (*auth.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

// MockAccountService implements auth.AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AccountView, error) {
	args := m.Called(ctx, req)
	view, _ := args.Get(0).(*auth.AccountView)
	return view, args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*auth.LoginResult)
	return res, args.Error(1)
}

func (m *MockAccountService) Account(ctx context.Context, id string) (*auth.AccountView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*auth.AccountView)
	return view, args.Error(1)
}

func (m *MockAccountService) UpdateEmail(ctx context.Context, id string, req auth.UpdateEmailRequest) (*auth.AccountView, error) {
	args := m.Called(ctx, id, req)
	view, _ := args.Get(0).(*auth.AccountView)
	return view, args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// nopLogger silences package logging in tests
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// newTestDB opens a private in-memory sqlite database with the schema applied
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := "file:" + unsafeName.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared"
	db, err := auth.OpenDB(auth.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrations.Run(context.Background(), db)
	require.NoError(t, err)

	return db
}
