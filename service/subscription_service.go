package service

import (
	"context"
	"fmt"
	"log"

	"meetups.app/errors"
	"meetups.app/models"
)

// SubscriptionService handles user subscriptions to meetups
type SubscriptionService struct {
	subscriptionRepo SubscriptionRepositoryInterface
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subscriptionRepo SubscriptionRepositoryInterface) *SubscriptionService {
	return &SubscriptionService{subscriptionRepo: subscriptionRepo}
}

// Follow subscribes the user to a meetup
func (s *SubscriptionService) Follow(ctx context.Context, userID, meetupID uint) (*models.SimpleMessage, error) {
	log.Printf("[DEBUG] SubscriptionService.Follow: userID=%d, meetupID=%d\n", userID, meetupID)

	existing, err := s.subscriptionRepo.Find(ctx, userID, meetupID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to check subscription", err)
	}
	if existing != nil {
		return nil, errors.NewAlreadyExistsError("The user is already subscribed to this meetup")
	}

	if err := s.subscriptionRepo.Create(ctx, userID, meetupID); err != nil {
		return nil, errors.NewDatabaseError("failed to create subscription", err)
	}

	return &models.SimpleMessage{
		Success: true,
		Message: "Subscription was successfully completed",
	}, nil
}

// Unfollow removes the user's subscription to a meetup
func (s *SubscriptionService) Unfollow(ctx context.Context, userID, meetupID uint) (*models.SimpleMessage, error) {
	log.Printf("[DEBUG] SubscriptionService.Unfollow: userID=%d, meetupID=%d\n", userID, meetupID)

	existing, err := s.subscriptionRepo.Find(ctx, userID, meetupID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to check subscription", err)
	}
	if existing == nil {
		return nil, errors.NewNotFoundError(
			fmt.Sprintf("Meetup subscription does not exist (uid=%d, mid=%d)", userID, meetupID))
	}

	if err := s.subscriptionRepo.Delete(ctx, userID, meetupID); err != nil {
		return nil, errors.NewDatabaseError("failed to delete subscription", err)
	}

	return &models.SimpleMessage{
		Success: true,
		Message: fmt.Sprintf("Meetup subscription has been deleted (uid=%d, mid=%d)", userID, meetupID),
	}, nil
}

// UserMeetups returns the future-dated meetups the user follows
func (s *SubscriptionService) UserMeetups(ctx context.Context, userID uint) ([]models.MeetupRecord, error) {
	records, err := s.subscriptionRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list user meetups", err)
	}
	return records, nil
}
