package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"meetups.app/errors"
	"meetups.app/events"
	"meetups.app/models"
	"meetups.app/pkg/validation"
	"meetups.app/providers"
	"meetups.app/repository"
)

// MeetupService handles the meetup lifecycle and publishes change events
type MeetupService struct {
	meetupRepo MeetupRepositoryInterface
	search     providers.SearchProvider
	hub        *events.Hub
}

// NewMeetupService creates a new meetup service
func NewMeetupService(
	meetupRepo MeetupRepositoryInterface,
	search providers.SearchProvider,
	hub *events.Hub,
) *MeetupService {
	return &MeetupService{
		meetupRepo: meetupRepo,
		search:     search,
		hub:        hub,
	}
}

// ListAll returns the joined view of every meetup
func (s *MeetupService) ListAll(ctx context.Context) ([]models.MeetupRecord, error) {
	records, err := s.meetupRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list meetups", err)
	}
	return records, nil
}

// Create validates and stores a new meetup, reusing existing Theme and
// Place rows when an identical pair already exists.
func (s *MeetupService) Create(ctx context.Context, req *models.MeetupRequest) (*models.SimpleMessage, error) {
	log.Printf("[DEBUG] MeetupService.Create called for: %s\n", req.MeetupName)

	if req.Date.Before(time.Now().UTC()) {
		return nil, errors.NewValidationError("You can not create meetups with an irrelevant date")
	}
	if !validation.IsValidCoordinates(req.Location) {
		return nil, errors.NewValidationError("Not a valid coordinates")
	}

	meetup, err := s.meetupRepo.Create(ctx, req)
	if err != nil {
		if err == repository.ErrDuplicateMeetup {
			return nil, err
		}
		return nil, errors.NewDatabaseError("failed to create meetup", err)
	}

	s.hub.Publish(events.Event{Type: events.MeetupCreated, MeetupID: meetup.ID})

	return &models.SimpleMessage{
		Success: true,
		Message: fmt.Sprintf("Meetup (meetup_id=%d) has been created", meetup.ID),
	}, nil
}

// Update applies the supplied fields to a meetup. Theme and Place changes
// mutate the shared dimension rows, so they show up on every meetup
// referencing the same Theme or Place.
func (s *MeetupService) Update(ctx context.Context, meetupID uint, req *models.MeetupUpdateRequest) (*models.SimpleMessage, error) {
	log.Printf("[DEBUG] MeetupService.Update called for: %d\n", meetupID)

	if req.IsEmpty() {
		return nil, errors.NewValidationError(
			fmt.Sprintf("No data to update (meetup_id=%d)", meetupID))
	}

	meetup, err := s.meetupRepo.FindByID(ctx, meetupID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to find meetup", err)
	}
	if meetup == nil {
		return nil, errors.NewNotFoundError("Meetup does not exist")
	}

	sets, err := buildUpdateSets(req)
	if err != nil {
		return nil, err
	}

	if err := s.meetupRepo.Update(ctx, meetup, sets); err != nil {
		return nil, errors.NewDatabaseError("failed to update meetup", err)
	}

	s.hub.Publish(events.Event{Type: events.MeetupUpdated, MeetupID: meetupID})

	return &models.SimpleMessage{
		Success: true,
		Message: fmt.Sprintf("Meetup (meetup_id=%d) has been updated", meetupID),
	}, nil
}

// buildUpdateSets splits the request into the three independent column sets
func buildUpdateSets(req *models.MeetupUpdateRequest) (*repository.UpdateSets, error) {
	sets := &repository.UpdateSets{
		Meetup: map[string]interface{}{},
		Theme:  map[string]interface{}{},
		Place:  map[string]interface{}{},
	}

	if req.MeetupName != nil {
		sets.Meetup["meetup_name"] = *req.MeetupName
	}
	if req.Date != nil {
		if req.Date.Before(time.Now().UTC()) {
			return nil, errors.NewValidationError("You can not use irrelevant date")
		}
		sets.Meetup["date"] = *req.Date
	}
	if req.Description != nil {
		sets.Meetup["description"] = *req.Description
	}
	if req.Theme != nil {
		sets.Theme["theme"] = *req.Theme
	}
	if req.Tags != nil {
		sets.Theme["tags"] = *req.Tags
	}
	if req.PlaceName != nil {
		sets.Place["place_name"] = *req.PlaceName
	}
	if req.Location != nil {
		if !validation.IsValidCoordinates(*req.Location) {
			return nil, errors.NewValidationError("Not a valid coordinates")
		}
		sets.Place["location"] = *req.Location
	}

	return sets, nil
}

// Delete removes a meetup and cleans up Theme and Place rows no other
// meetup references anymore.
func (s *MeetupService) Delete(ctx context.Context, meetupID uint) (*models.SimpleMessage, error) {
	log.Printf("[DEBUG] MeetupService.Delete called for: %d\n", meetupID)

	meetup, err := s.meetupRepo.FindByID(ctx, meetupID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to find meetup", err)
	}
	if meetup == nil {
		return nil, errors.NewNotFoundError(
			fmt.Sprintf("Meetup (meetup_id=%d) not found", meetupID))
	}

	if err := s.meetupRepo.Delete(ctx, meetupID); err != nil {
		return nil, errors.NewDatabaseError("failed to delete meetup", err)
	}

	s.hub.Publish(events.Event{Type: events.MeetupDeleted, MeetupID: meetupID})

	return &models.SimpleMessage{
		Success: true,
		Message: fmt.Sprintf("Meetup (meetup_id=%d) has been deleted", meetupID),
	}, nil
}

// Search queries the search provider for future-dated meetups
func (s *MeetupService) Search(ctx context.Context, query string) ([]models.MeetupRecord, error) {
	records, err := s.search.Search(ctx, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to search meetups", err)
	}
	return records, nil
}
