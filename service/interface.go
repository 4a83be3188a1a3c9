package service

import (
	"context"

	"meetups.app/models"
	"meetups.app/repository"
)

// UserRepositoryInterface defines the interface for user data operations
type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	CheckAvailability(ctx context.Context, username, email string) (*repository.AvailabilityResult, error)
	Create(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, userID uint, fields map[string]interface{}) error
	Activate(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, userID uint) error
	SaveAvatarURL(ctx context.Context, userID uint, url string) error
}

// TokenRepositoryInterface defines the interface for session token operations
type TokenRepositoryInterface interface {
	CreateToken(ctx context.Context, userID uint) (*models.Token, error)
	FindUserByToken(ctx context.Context, token string) (*models.User, error)
	DeleteExpiredTokens(ctx context.Context) error
}

// MeetupRepositoryInterface defines the interface for meetup data operations
type MeetupRepositoryInterface interface {
	FindByID(ctx context.Context, id uint) (*models.Meetup, error)
	ListAll(ctx context.Context) ([]models.MeetupRecord, error)
	ListActual(ctx context.Context) ([]models.MeetupRecord, error)
	Create(ctx context.Context, req *models.MeetupRequest) (*models.Meetup, error)
	Update(ctx context.Context, meetup *models.Meetup, sets *repository.UpdateSets) error
	Delete(ctx context.Context, meetupID uint) error
}

// SubscriptionRepositoryInterface defines the interface for subscription pairs
type SubscriptionRepositoryInterface interface {
	Find(ctx context.Context, userID, meetupID uint) (*models.MeetupUser, error)
	Create(ctx context.Context, userID, meetupID uint) error
	Delete(ctx context.Context, userID, meetupID uint) error
	ListForUser(ctx context.Context, userID uint) ([]models.MeetupRecord, error)
}

// FileStoreInterface defines the interface for user file storage
type FileStoreInterface interface {
	IsImage(content []byte) bool
	SaveAvatar(userID uint, content []byte) (string, error)
	NewReportPath(userID uint, mode string) (string, error)
}

// TaskSubmitterInterface defines the interface for background task dispatch
type TaskSubmitterInterface interface {
	Submit(ctx context.Context, name string, payload interface{}) (TaskHandle, error)
}

// TaskHandle is the future returned by task submission
type TaskHandle interface {
	Wait(ctx context.Context) (interface{}, error)
}

// UserServiceInterface defines the interface for account operations
type UserServiceInterface interface {
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.SimpleMessage, error)
	SignIn(ctx context.Context, req *models.SignInRequest) (*models.TokenResponse, error)
	Activate(ctx context.Context, token string) (*models.SimpleMessage, error)
	Profile(user *models.User) *models.UserProfile
	UpdateProfile(ctx context.Context, user *models.User, req *models.ProfileUpdateRequest) (*models.SimpleMessage, error)
	DeleteUser(ctx context.Context, userID uint) (*models.SimpleMessage, error)
	SaveAvatar(ctx context.Context, userID uint, content []byte) (*models.SimpleMessage, error)
	EnsureSuperuser(ctx context.Context) error
}

// MeetupServiceInterface defines the interface for meetup lifecycle operations
type MeetupServiceInterface interface {
	ListAll(ctx context.Context) ([]models.MeetupRecord, error)
	Create(ctx context.Context, req *models.MeetupRequest) (*models.SimpleMessage, error)
	Update(ctx context.Context, meetupID uint, req *models.MeetupUpdateRequest) (*models.SimpleMessage, error)
	Delete(ctx context.Context, meetupID uint) (*models.SimpleMessage, error)
	Search(ctx context.Context, query string) ([]models.MeetupRecord, error)
}

// SubscriptionServiceInterface defines the interface for follow/unfollow flows
type SubscriptionServiceInterface interface {
	Follow(ctx context.Context, userID, meetupID uint) (*models.SimpleMessage, error)
	Unfollow(ctx context.Context, userID, meetupID uint) (*models.SimpleMessage, error)
	UserMeetups(ctx context.Context, userID uint) ([]models.MeetupRecord, error)
}

// EmailServiceInterface defines the interface for email operations
type EmailServiceInterface interface {
	SendVerificationEmail(ctx context.Context, email, username string) error
}

// ReportServiceInterface defines the interface for report generation
type ReportServiceInterface interface {
	CreateReport(ctx context.Context, userID uint, mode string) (*models.ReportResponse, error)
}

// Ensure implementations satisfy interfaces
var _ UserServiceInterface = (*UserService)(nil)
var _ MeetupServiceInterface = (*MeetupService)(nil)
var _ SubscriptionServiceInterface = (*SubscriptionService)(nil)
var _ EmailServiceInterface = (*EmailService)(nil)
var _ ReportServiceInterface = (*ReportService)(nil)
