package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-service"
	"github.com/stretchr/testify/assert"
)

func TestActivitySinks_FanOut(t *testing.T) {
	var calls []string
	first := auth.ActivitySinkFunc(func(context.Context, auth.ActivityEvent) error {
		calls = append(calls, "first")
		return errors.New("first failed")
	})
	second := auth.ActivitySinkFunc(func(context.Context, auth.ActivityEvent) error {
		calls = append(calls, "second")
		return errors.New("second failed")
	})

	err := auth.ActivitySinks{first, nil, second}.Record(context.Background(), auth.ActivityEvent{
		EventType: auth.ActivityEventRegistered,
	})

	assert.EqualError(t, err, "first failed")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestActivitySinkFunc_Nil(t *testing.T) {
	var sink auth.ActivitySinkFunc
	assert.NoError(t, sink.Record(context.Background(), auth.ActivityEvent{}))
}

func TestNewLogActivitySink(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	logger := new(MockLogger)
	logger.On("Info", "account activity", []any{
		"event", "auth.login.success",
		"account_id", "account-1",
		"occurred_at", at,
	}).Return()

	sink := auth.NewLogActivitySink(logger)
	err := sink.Record(context.Background(), auth.ActivityEvent{
		EventType:  auth.ActivityEventLoginSuccess,
		AccountID:  "account-1",
		OccurredAt: at,
	})

	assert.NoError(t, err)
	logger.AssertExpectations(t)
}
