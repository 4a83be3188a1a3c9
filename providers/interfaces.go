package providers

import (
	"context"

	"meetups.app/models"
)

// EmailProvider defines the interface for email providers
type EmailProvider interface {
	SendEmail(to, subject, body string, isHTML bool) error
}

// SearchProvider defines the interface for meetup search engines
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]models.MeetupRecord, error)
}
