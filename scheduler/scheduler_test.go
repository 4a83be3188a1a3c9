package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"meetups.app/models"
	"meetups.app/service"
)

type mockTokenRepo struct {
	mock.Mock
}

var _ service.TokenRepositoryInterface = (*mockTokenRepo)(nil)

func (m *mockTokenRepo) CreateToken(ctx context.Context, userID uint) (*models.Token, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Token), args.Error(1)
}

func (m *mockTokenRepo) FindUserByToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockTokenRepo) DeleteExpiredTokens(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestScheduler_RunsCleanupOnStart(t *testing.T) {
	repo := new(mockTokenRepo)
	called := make(chan struct{}, 1)
	repo.On("DeleteExpiredTokens", mock.Anything).Run(func(mock.Arguments) {
		select {
		case called <- struct{}{}:
		default:
		}
	}).Return(nil)

	s := NewScheduler(repo)
	s.Start()
	defer s.Stop()

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected an immediate cleanup run")
	}
}

func TestScheduler_RunsCleanupOnTick(t *testing.T) {
	repo := new(mockTokenRepo)
	calls := make(chan struct{}, 8)
	repo.On("DeleteExpiredTokens", mock.Anything).Run(func(mock.Arguments) {
		calls <- struct{}{}
	}).Return(nil)

	s := NewScheduler(repo)
	s.cleanupInterval = 10 * time.Millisecond
	s.Start()
	defer s.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatalf("expected cleanup run %d", i+1)
		}
	}
}

func TestScheduler_StopWaitsForLoop(t *testing.T) {
	repo := new(mockTokenRepo)
	repo.On("DeleteExpiredTokens", mock.Anything).Return(assert.AnError)

	s := NewScheduler(repo)
	s.Start()

	finished := make(chan struct{})
	go func() {
		s.Stop()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler(new(mockTokenRepo))
	assert.NotPanics(t, s.Stop)
}
