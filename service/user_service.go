package service

import (
	"context"
	"fmt"
	"log"

	"meetups.app/config"
	"meetups.app/errors"
	"meetups.app/models"
	"meetups.app/pkg/security"
	"meetups.app/pkg/validation"
)

// UserService handles account lifecycle: registration, authentication,
// activation, profile maintenance and removal.
type UserService struct {
	userRepo     UserRepositoryInterface
	tokenRepo    TokenRepositoryInterface
	emailService EmailServiceInterface
	codec        *security.TokenCodec
	store        FileStoreInterface
	superuser    config.SuperuserConfig
}

// NewUserService creates a new user service
func NewUserService(
	userRepo UserRepositoryInterface,
	tokenRepo TokenRepositoryInterface,
	emailService EmailServiceInterface,
	codec *security.TokenCodec,
	store FileStoreInterface,
	superuser config.SuperuserConfig,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		emailService: emailService,
		codec:        codec,
		store:        store,
		superuser:    superuser,
	}
}

// SignUp registers a new account and queues a verification email.
// The account stays inactive until the emailed activation link is followed.
func (s *UserService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.SimpleMessage, error) {
	log.Printf("[DEBUG] UserService.SignUp called for: %s\n", req.Username)

	if violations := security.CheckStrength(req.Password); violations != "" {
		return nil, errors.NewValidationError(violations)
	}

	availability, err := s.userRepo.CheckAvailability(ctx, req.Username, req.Email)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to check user availability", err)
	}

	switch {
	case availability.EmailID != nil && availability.UsernameID != nil:
		return nil, errors.NewAlreadyExistsError("User already registered")
	case availability.EmailID != nil:
		return nil, errors.NewAlreadyExistsError("Email already registered")
	case availability.UsernameID != nil:
		return nil, errors.NewAlreadyExistsError("Username already registered")
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.NewDatabaseError("failed to create user", err)
	}

	if _, err := s.tokenRepo.CreateToken(ctx, user.ID); err != nil {
		return nil, errors.NewDatabaseError("failed to create session token", err)
	}

	if err := s.emailService.SendVerificationEmail(ctx, user.Email, user.Username); err != nil {
		return nil, err
	}

	return &models.SimpleMessage{
		Success: true,
		Message: fmt.Sprintf("Verification mail has been sent (user_id=%d)", user.ID),
	}, nil
}

// SignIn verifies credentials and issues a fresh session token.
// Unknown usernames and wrong passwords yield the same error.
func (s *UserService) SignIn(ctx context.Context, req *models.SignInRequest) (*models.TokenResponse, error) {
	log.Printf("[DEBUG] UserService.SignIn called for: %s\n", req.Username)

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to find user", err)
	}
	if user == nil || !security.CheckPassword(req.Password, user.PasswordHash) {
		return nil, errors.NewValidationError("Incorrect email or password")
	}

	token, err := s.tokenRepo.CreateToken(ctx, user.ID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to create session token", err)
	}

	return &models.TokenResponse{
		AccessToken: token.Token,
		Expires:     token.Expires,
		TokenType:   "bearer",
	}, nil
}

// Activate confirms the account referenced by a signed activation token
func (s *UserService) Activate(ctx context.Context, token string) (*models.SimpleMessage, error) {
	log.Println("[DEBUG] UserService.Activate called")

	username, err := s.codec.Decode(token)
	if err != nil {
		return nil, errors.NewTokenError("Incorrect validation token")
	}

	user, err := s.userRepo.Activate(ctx, username)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to activate user", err)
	}
	if user == nil {
		return nil, errors.NewTokenError("Incorrect validation token")
	}

	return &models.SimpleMessage{
		Success: true,
		Message: fmt.Sprintf("User '%s' has been activated", username),
	}, nil
}

// Profile projects the authenticated user into its public shape
func (s *UserService) Profile(user *models.User) *models.UserProfile {
	return &models.UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		IsSuper:   user.IsSuper,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		AvatarURL: user.AvatarURL,
	}
}

// UpdateProfile applies the supplied fields to the account. Changing the
// email deactivates the account and queues a fresh verification email.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, req *models.ProfileUpdateRequest) (*models.SimpleMessage, error) {
	log.Printf("[DEBUG] UserService.UpdateProfile called for: %s\n", user.Username)

	if req.IsEmpty() {
		return nil, errors.NewValidationError("No data to update")
	}

	if req.Email != nil {
		availability, err := s.userRepo.CheckAvailability(ctx, "", *req.Email)
		if err != nil {
			return nil, errors.NewDatabaseError("failed to check email availability", err)
		}
		if availability.EmailID != nil && *availability.EmailID != user.ID {
			return nil, errors.NewAlreadyExistsError("Email already registered")
		}
	}

	if req.Password != nil {
		if violations := security.CheckStrength(*req.Password); violations != "" {
			return nil, errors.NewValidationError(violations)
		}
	}

	fields := map[string]interface{}{}
	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Email != nil {
		fields["email"] = *req.Email
		fields["confirmed"] = false
		fields["is_active"] = false
	}

	if err := s.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, errors.NewDatabaseError("failed to update user", err)
	}

	if req.Email != nil {
		if err := s.emailService.SendVerificationEmail(ctx, *req.Email, user.Username); err != nil {
			return nil, err
		}
	}

	return &models.SimpleMessage{
		Success: true,
		Message: fmt.Sprintf("User '%s' has been updated", user.Username),
	}, nil
}

// DeleteUser removes the account together with its tokens and subscriptions
func (s *UserService) DeleteUser(ctx context.Context, userID uint) (*models.SimpleMessage, error) {
	log.Printf("[DEBUG] UserService.DeleteUser called for: %d\n", userID)

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return nil, errors.NewDatabaseError(
			fmt.Sprintf("User removal failed (user_id=%d)", userID), err)
	}

	return &models.SimpleMessage{
		Success: true,
		Message: fmt.Sprintf("User (user_id=%d) has been deleted", userID),
	}, nil
}

// SaveAvatar validates the upload is an image and stores it for the user
func (s *UserService) SaveAvatar(ctx context.Context, userID uint, content []byte) (*models.SimpleMessage, error) {
	log.Printf("[DEBUG] UserService.SaveAvatar called for: %d\n", userID)

	if !s.store.IsImage(content) {
		return nil, errors.NewValidationError("Incorrect file type")
	}

	path, err := s.store.SaveAvatar(userID, content)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveAvatarURL(ctx, userID, path); err != nil {
		return nil, errors.NewDatabaseError("failed to save avatar url", err)
	}

	return &models.SimpleMessage{
		Success: true,
		Message: fmt.Sprintf("User avatar upload successful (user_id = %d)", userID),
	}, nil
}

// EnsureSuperuser creates the configured administrator account on startup
// when neither its email nor its username exists yet.
func (s *UserService) EnsureSuperuser(ctx context.Context) error {
	if s.superuser.Username == "" || s.superuser.Email == "" || s.superuser.Password == "" {
		log.Println("[DEBUG] Superuser bootstrap skipped: not configured")
		return nil
	}
	// The superuser email comes from the environment and never passes
	// through request binding, so it is validated here.
	if !validation.IsValidEmail(s.superuser.Email) {
		return errors.NewConfigurationError("SUPERUSER_EMAIL is not a valid email address", nil)
	}

	availability, err := s.userRepo.CheckAvailability(ctx, s.superuser.Username, s.superuser.Email)
	if err != nil {
		return errors.NewDatabaseError("failed to check superuser availability", err)
	}
	if availability.EmailID != nil || availability.UsernameID != nil {
		return nil
	}

	hash, err := security.HashPassword(s.superuser.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        s.superuser.Email,
		Username:     s.superuser.Username,
		PasswordHash: hash,
		Confirmed:    true,
		IsActive:     true,
		IsSuper:      true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return errors.NewDatabaseError("failed to create superuser", err)
	}

	log.Printf("[DEBUG] Superuser created with ID: %d\n", admin.ID)
	return nil
}
