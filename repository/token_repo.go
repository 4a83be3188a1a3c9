package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"meetups.app/models"
)

// SessionTokenTTL is the lifetime of opaque bearer session tokens.
const SessionTokenTTL = 14 * 24 * time.Hour

// TokenRepository handles data access operations for session tokens
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new repository for token operations
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateToken generates and stores a new opaque session token for a user
func (r *TokenRepository) CreateToken(ctx context.Context, userID uint) (*models.Token, error) {
	log.Printf("[DEBUG] TokenRepository.CreateToken: userID=%d\n", userID)

	token := &models.Token{
		Token:   uuid.New().String(),
		Expires: time.Now().Add(SessionTokenTTL),
		UserID:  userID,
	}

	result := r.db.WithContext(ctx).Create(token)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when creating token: %v\n", result.Error)
		return nil, result.Error
	}

	log.Printf("[DEBUG] Created token with ID: %d\n", token.ID)
	return token, nil
}

// FindUserByToken joins a live token to its owning user. Expired and unknown
// tokens both yield (nil, nil) - the two cases are indistinguishable.
func (r *TokenRepository) FindUserByToken(ctx context.Context, tokenStr string) (*models.User, error) {
	log.Printf("[DEBUG] TokenRepository.FindUserByToken called\n")

	var user models.User
	result := r.db.WithContext(ctx).
		Joins("JOIN tokens ON tokens.user_id = users.id").
		Where("tokens.token = ? AND tokens.expires > ?", tokenStr, time.Now()).
		First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("[ERROR] Database error when finding user by token: %v\n", result.Error)
		return nil, result.Error
	}

	return &user, nil
}

// DeleteExpiredTokens removes all expired tokens from the database
func (r *TokenRepository) DeleteExpiredTokens(ctx context.Context) error {
	log.Println("[DEBUG] TokenRepository.DeleteExpiredTokens called")

	result := r.db.WithContext(ctx).Where("expires < ?", time.Now()).Delete(&models.Token{})
	if result.Error != nil {
		log.Printf("[ERROR] Database error when deleting expired tokens: %v\n", result.Error)
		return result.Error
	}

	log.Printf("[DEBUG] Deleted %d expired tokens\n", result.RowsAffected)
	return nil
}
