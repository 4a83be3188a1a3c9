package providers

import (
	"context"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"meetups.app/models"
)

// DBSearchProvider implements SearchProvider with a case-insensitive
// substring match over the joined meetup view. Only future-dated meetups
// are searched.
type DBSearchProvider struct {
	db *gorm.DB
}

// NewDBSearchProvider creates a database-backed search provider
func NewDBSearchProvider(db *gorm.DB) *DBSearchProvider {
	return &DBSearchProvider{db: db}
}

const searchRecordSelect = "meetups.id, meetups.meetup_name, meetups.date, meetups.description, " +
	"themes.theme, themes.tags, places.place_name, places.location"

// Search returns future-dated meetups matching the query in any text column,
// newest first.
func (p *DBSearchProvider) Search(ctx context.Context, query string) ([]models.MeetupRecord, error) {
	log.Printf("[DEBUG] DBSearchProvider.Search: query=%s\n", query)

	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var records []models.MeetupRecord
	result := p.db.WithContext(ctx).
		Model(&models.Meetup{}).
		Select(searchRecordSelect).
		Joins("JOIN places ON meetups.place_id = places.id").
		Joins("JOIN themes ON meetups.theme_id = themes.id").
		Where("meetups.date >= ?", time.Now().UTC()).
		Where(
			"LOWER(meetups.meetup_name) LIKE ? OR LOWER(meetups.description) LIKE ? OR "+
				"LOWER(themes.theme) LIKE ? OR LOWER(themes.tags) LIKE ? OR LOWER(places.place_name) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		).
		Order("meetups.date DESC").
		Scan(&records)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when searching meetups: %v\n", result.Error)
		return nil, result.Error
	}

	return records, nil
}
