package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"meetups.app/models"
)

// SubscriptionRepository handles the user-to-meetup subscription pairs
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new repository for subscription data
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Find retrieves a subscription pair if it exists
func (r *SubscriptionRepository) Find(ctx context.Context, userID, meetupID uint) (*models.MeetupUser, error) {
	log.Printf("[DEBUG] SubscriptionRepository.Find: userID=%d, meetupID=%d\n", userID, meetupID)

	var sub models.MeetupUser
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND meetup_id = ?", userID, meetupID).
		First(&sub)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("[ERROR] Database error when finding subscription: %v\n", result.Error)
		return nil, result.Error
	}

	return &sub, nil
}

// Create persists a new subscription pair
func (r *SubscriptionRepository) Create(ctx context.Context, userID, meetupID uint) error {
	log.Printf("[DEBUG] SubscriptionRepository.Create: userID=%d, meetupID=%d\n", userID, meetupID)

	sub := &models.MeetupUser{UserID: userID, MeetupID: meetupID}
	result := r.db.WithContext(ctx).Create(sub)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when creating subscription: %v\n", result.Error)
		return result.Error
	}

	return nil
}

// Delete removes a subscription pair
func (r *SubscriptionRepository) Delete(ctx context.Context, userID, meetupID uint) error {
	log.Printf("[DEBUG] SubscriptionRepository.Delete: userID=%d, meetupID=%d\n", userID, meetupID)

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND meetup_id = ?", userID, meetupID).
		Delete(&models.MeetupUser{})
	if result.Error != nil {
		log.Printf("[ERROR] Database error when deleting subscription: %v\n", result.Error)
		return result.Error
	}

	return nil
}

// ListForUser returns the joined view of future-dated meetups the user follows
func (r *SubscriptionRepository) ListForUser(ctx context.Context, userID uint) ([]models.MeetupRecord, error) {
	log.Printf("[DEBUG] SubscriptionRepository.ListForUser: userID=%d\n", userID)

	var records []models.MeetupRecord
	result := meetupRecordQuery(r.db.WithContext(ctx)).
		Joins("JOIN meetup_users ON meetup_users.meetup_id = meetups.id AND meetup_users.user_id = ?", userID).
		Where("meetups.date >= ?", time.Now().UTC()).
		Scan(&records)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when listing user meetups: %v\n", result.Error)
		return nil, result.Error
	}

	return records, nil
}
