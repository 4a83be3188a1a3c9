package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"meetups.app/models"
	"meetups.app/repository"
)

// Mock user repository - implements UserRepositoryInterface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) CheckAvailability(ctx context.Context, username, email string) (*repository.AvailabilityResult, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AvailabilityResult), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) UpdateFields(ctx context.Context, userID uint, fields map[string]interface{}) error {
	args := m.Called(ctx, userID, fields)
	return args.Error(0)
}

func (m *mockUserRepo) Activate(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockUserRepo) SaveAvatarURL(ctx context.Context, userID uint, url string) error {
	args := m.Called(ctx, userID, url)
	return args.Error(0)
}

var _ UserRepositoryInterface = (*mockUserRepo)(nil)

// Mock token repository - implements TokenRepositoryInterface
type mockTokenRepo struct {
	mock.Mock
}

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

var _ TokenRepositoryInterface = (*mockTokenRepo)(nil)

// Mock meetup repository - implements MeetupRepositoryInterface
type mockMeetupRepo struct {
	mock.Mock
}

func (m *mockMeetupRepo) FindByID(ctx context.Context, id uint) (*models.Meetup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meetup), args.Error(1)
}

func (m *mockMeetupRepo) ListAll(ctx context.Context) ([]models.MeetupRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MeetupRecord), args.Error(1)
}

func (m *mockMeetupRepo) ListActual(ctx context.Context) ([]models.MeetupRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MeetupRecord), args.Error(1)
}

func (m *mockMeetupRepo) Create(ctx context.Context, req *models.MeetupRequest) (*models.Meetup, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meetup), args.Error(1)
}

func (m *mockMeetupRepo) Update(ctx context.Context, meetup *models.Meetup, sets *repository.UpdateSets) error {
	args := m.Called(ctx, meetup, sets)
	return args.Error(0)
}

func (m *mockMeetupRepo) Delete(ctx context.Context, meetupID uint) error {
	args := m.Called(ctx, meetupID)
	return args.Error(0)
}

var _ MeetupRepositoryInterface = (*mockMeetupRepo)(nil)

// Mock subscription repository - implements SubscriptionRepositoryInterface
type mockSubscriptionRepo struct {
	mock.Mock
}

func (m *mockSubscriptionRepo) Find(ctx context.Context, userID, meetupID uint) (*models.MeetupUser, error) {
	args := m.Called(ctx, userID, meetupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetupUser), args.Error(1)
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, userID, meetupID uint) error {
	args := m.Called(ctx, userID, meetupID)
	return args.Error(0)
}

func (m *mockSubscriptionRepo) Delete(ctx context.Context, userID, meetupID uint) error {
	args := m.Called(ctx, userID, meetupID)
	return args.Error(0)
}

func (m *mockSubscriptionRepo) ListForUser(ctx context.Context, userID uint) ([]models.MeetupRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MeetupRecord), args.Error(1)
}

var _ SubscriptionRepositoryInterface = (*mockSubscriptionRepo)(nil)

// Mock file store - implements FileStoreInterface
type mockFileStore struct {
	mock.Mock
}

func (m *mockFileStore) IsImage(content []byte) bool {
	args := m.Called(content)
	return args.Bool(0)
}

func (m *mockFileStore) SaveAvatar(userID uint, content []byte) (string, error) {
	args := m.Called(userID, content)
	return args.String(0), args.Error(1)
}

func (m *mockFileStore) NewReportPath(userID uint, mode string) (string, error) {
	args := m.Called(userID, mode)
	return args.String(0), args.Error(1)
}

var _ FileStoreInterface = (*mockFileStore)(nil)

// Mock email service - implements EmailServiceInterface
type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendVerificationEmail(ctx context.Context, email, username string) error {
	args := m.Called(ctx, email, username)
	return args.Error(0)
}

var _ EmailServiceInterface = (*mockEmailService)(nil)

// Mock email provider - implements providers.EmailProvider
type mockEmailProvider struct {
	mock.Mock
}

func (m *mockEmailProvider) SendEmail(to, subject, body string, isHTML bool) error {
	args := m.Called(to, subject, body, isHTML)
	return args.Error(0)
}

// Mock search provider - implements providers.SearchProvider
type mockSearchProvider struct {
	mock.Mock
}

func (m *mockSearchProvider) Search(ctx context.Context, query string) ([]models.MeetupRecord, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MeetupRecord), args.Error(1)
}

// Completed task handle for submitter stubs
type stubHandle struct {
	result interface{}
	err    error
}

func (h stubHandle) Wait(_ context.Context) (interface{}, error) {
	return h.result, h.err
}

// Stub task submitter recording submissions
type stubSubmitter struct {
	mock.Mock
}

func (s *stubSubmitter) Submit(ctx context.Context, name string, payload interface{}) (TaskHandle, error) {
	args := s.Called(ctx, name, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(TaskHandle), args.Error(1)
}

var _ TaskSubmitterInterface = (*stubSubmitter)(nil)
