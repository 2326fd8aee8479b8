package auth

import (
	"context"
	"strings"
	"sync"
	"time"
)

// LoginResult is returned by a successful login
type LoginResult struct {
	Token   string       `json:"token"`
	Account *AccountView `json:"user"`
}

// Service implements the account lifecycle: registration, login, lookup,
// email change and deletion.
type Service struct {
	store        CredentialStore
	hasher       PasswordHasher
	tokens       TokenCodec
	logger       Logger
	activitySink ActivitySink
	now          func() time.Time

	dummyOnce   sync.Once
	dummyDigest string
}

// NewService returns a new Service
func NewService(store CredentialStore, hasher PasswordHasher, tokens TokenCodec) *Service {
	return &Service{
		store:        store,
		hasher:       hasher,
		tokens:       tokens,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
	}
}

// WithLogger sets the logger
func (s *Service) WithLogger(logger Logger) *Service {
	s.logger = normalizeLogger(logger)
	return s
}

// WithActivitySink configures an ActivitySink for emitting account events.
func (s *Service) WithActivitySink(sink ActivitySink) *Service {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// Register validates the request, stores a new account and returns its
// public view. A duplicate email is reported as ErrEmailTaken.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AccountView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)

	// fast path only, the unique constraint decides under concurrency
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		s.emit(ctx, ActivityEventRegisterFailure, "", map[string]any{
			"reason": TextCodeConflict,
		})
		return nil, ErrEmailTaken
	} else if !IsKind(err, KindNotFound) {
		return nil, s.passthrough(err, "find account")
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, s.passthrough(err, "hash password")
	}

	record, err := s.store.Insert(ctx, &Account{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		PasswordDigest: digest,
	})
	if err != nil {
		if IsKind(err, KindConflict) {
			s.emit(ctx, ActivityEventRegisterFailure, "", map[string]any{
				"reason": TextCodeConflict,
			})
			return nil, ErrEmailTaken
		}
		return nil, s.passthrough(err, "insert account")
	}

	s.logger.Info("account registered", "account_id", record.ID.String())
	s.emit(ctx, ActivityEventRegistered, record.ID.String(), nil)

	return record.View(), nil
}

// Login verifies the credentials and issues a token whose subject is the
// account id. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	record, err := s.store.FindByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if IsKind(err, KindNotFound) {
			// spend the same bcrypt work as a real mismatch
			s.hasher.Verify(req.Password, s.dummy())
			s.loginFailed(ctx, "")
			return nil, ErrInvalidCredentials
		}
		return nil, s.passthrough(err, "find account")
	}

	if !s.hasher.Verify(req.Password, record.PasswordDigest) {
		s.loginFailed(ctx, record.ID.String())
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(NewClaims(record.ID.String()))
	if err != nil {
		return nil, s.passthrough(err, "issue token")
	}

	s.emit(ctx, ActivityEventLoginSuccess, record.ID.String(), nil)

	return &LoginResult{
		Token:   token,
		Account: record.View(),
	}, nil
}

// Account returns the public view of the account with the given id
func (s *Service) Account(ctx context.Context, id string) (*AccountView, error) {
	view, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.passthrough(err, "find account")
	}
	return view, nil
}

// UpdateEmail changes the email of an existing account. The account must
// exist before the new email is looked at.
func (s *Service) UpdateEmail(ctx context.Context, id string, req UpdateEmailRequest) (*AccountView, error) {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return nil, s.passthrough(err, "find account")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	view, err := s.store.UpdateEmail(ctx, id, NormalizeEmail(req.Email))
	if err != nil {
		if IsKind(err, KindConflict) {
			return nil, ErrEmailTaken
		}
		return nil, s.passthrough(err, "update account email")
	}

	s.emit(ctx, ActivityEventEmailUpdated, view.ID.String(), nil)

	return view, nil
}

// DeleteAccount removes the account. Deleting a missing account reports
// ErrAccountNotFound.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.passthrough(err, "delete account")
	}

	s.logger.Info("account deleted", "account_id", id)
	s.emit(ctx, ActivityEventAccountDeleted, id, nil)

	return nil
}

// passthrough returns classified errors as they are and turns anything
// else into a logged Internal error.
func (s *Service) passthrough(err error, operation string) error {
	if KindOf(err) != KindInternal {
		return err
	}
	s.logger.Error("account operation failed", "operation", operation, "error", err)
	return internalError(err, operation+" failed")
}

func (s *Service) loginFailed(ctx context.Context, accountID string) {
	s.logger.Debug("login rejected", "account_id", accountID)
	s.emit(ctx, ActivityEventLoginFailure, accountID, map[string]any{
		"reason": TextCodeInvalidCredentials,
	})
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("not-a-real-password")
		if err != nil {
			s.logger.Warn("dummy digest unavailable", "error", err)
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

func (s *Service) emit(ctx context.Context, eventType ActivityEventType, accountID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		AccountID:  accountID,
		Metadata:   metadata,
		OccurredAt: s.now().UTC(),
	}

	if err := s.activitySink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink error", "event", eventType, "error", err)
	}
}
