// Package repository implements data access layer for the application
package repository

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
	"meetups.app/models"
)

// AvailabilityResult carries the ids of users already holding an email or
// username. Both, one or neither field may be set.
type AvailabilityResult struct {
	EmailID    *uint
	UsernameID *uint
}

// UserRepository handles data access operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository for user data
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by its ID
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	log.Printf("[DEBUG] UserRepository.FindByID: id=%d\n", id)

	var user models.User
	result := r.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("[ERROR] Database error when finding user by ID: %v\n", result.Error)
		return nil, result.Error
	}

	return &user, nil
}

// FindByUsername retrieves a user by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	log.Printf("[DEBUG] UserRepository.FindByUsername: username=%s\n", username)

	var user models.User
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Println("[DEBUG] No user found")
			return nil, nil
		}
		log.Printf("[ERROR] Database error when finding user by username: %v\n", result.Error)
		return nil, result.Error
	}

	return &user, nil
}

// CheckAvailability runs independent existence lookups for email and username
func (r *UserRepository) CheckAvailability(ctx context.Context, username, email string) (*AvailabilityResult, error) {
	log.Printf("[DEBUG] UserRepository.CheckAvailability: username=%s, email=%s\n", username, email)

	verdict := &AvailabilityResult{}

	if email != "" {
		var user models.User
		result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
		if result.Error == nil {
			verdict.EmailID = &user.ID
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] Database error when checking email: %v\n", result.Error)
			return nil, result.Error
		}
	}

	if username != "" {
		var user models.User
		result := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
		if result.Error == nil {
			verdict.UsernameID = &user.ID
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] Database error when checking username: %v\n", result.Error)
			return nil, result.Error
		}
	}

	return verdict, nil
}

// Create persists a new user to the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	log.Printf("[DEBUG] UserRepository.Create: email=%s, username=%s\n", user.Email, user.Username)

	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when creating user: %v\n", result.Error)
		return result.Error
	}

	log.Printf("[DEBUG] Created user with ID: %d\n", user.ID)
	return nil
}

// UpdateFields applies a partial column update to the user row
func (r *UserRepository) UpdateFields(ctx context.Context, userID uint, fields map[string]interface{}) error {
	log.Printf("[DEBUG] UserRepository.UpdateFields: id=%d, fields=%d\n", userID, len(fields))

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when updating user: %v\n", result.Error)
		return result.Error
	}

	return nil
}

// Activate marks the named user as confirmed and active.
// Returns the affected user or nil when the username is unknown.
func (r *UserRepository) Activate(ctx context.Context, username string) (*models.User, error) {
	log.Printf("[DEBUG] UserRepository.Activate: username=%s\n", username)

	var user models.User
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("[ERROR] Database error when activating user: %v\n", result.Error)
		return nil, result.Error
	}

	update := r.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"confirmed": true,
		"is_active": true,
	})
	if update.Error != nil {
		log.Printf("[ERROR] Database error when activating user: %v\n", update.Error)
		return nil, update.Error
	}

	return &user, nil
}

// Delete hard-deletes a user. Tokens and subscriptions cascade.
func (r *UserRepository) Delete(ctx context.Context, userID uint) error {
	log.Printf("[DEBUG] UserRepository.Delete: id=%d\n", userID)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SQLite in tests does not enforce the FK cascade, so dependent
		// rows are removed explicitly inside the same transaction.
		if err := tx.Where("user_id = ?", userID).Delete(&models.Token{}).Error; err != nil {
			log.Printf("[ERROR] Database error when deleting user tokens: %v\n", err)
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.MeetupUser{}).Error; err != nil {
			log.Printf("[ERROR] Database error when deleting user subscriptions: %v\n", err)
			return err
		}
		if err := tx.Delete(&models.User{}, userID).Error; err != nil {
			log.Printf("[ERROR] Database error when deleting user: %v\n", err)
			return err
		}
		return nil
	})
}

// SaveAvatarURL records the stored avatar path on the user row
func (r *UserRepository) SaveAvatarURL(ctx context.Context, userID uint, url string) error {
	log.Printf("[DEBUG] UserRepository.SaveAvatarURL: id=%d, url=%s\n", userID, url)

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", url)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when saving avatar url: %v\n", result.Error)
		return result.Error
	}

	return nil
}
