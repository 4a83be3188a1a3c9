package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"meetups.app/models"
)

// Setup test database with in-memory SQLite
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Theme{},
		&models.Place{},
		&models.Meetup{},
		&models.MeetupUser{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: "hash",
		Confirmed:    true,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestMeetup(t *testing.T, db *gorm.DB, name, theme, place string, date time.Time) *models.Meetup {
	t.Helper()

	themeRow := &models.Theme{Theme: theme, Tags: "tags"}
	require.NoError(t, db.Where("theme = ? AND tags = ?", theme, "tags").FirstOrCreate(themeRow).Error)

	placeRow := &models.Place{PlaceName: place, Location: "52.4345,30.9754"}
	require.NoError(t, db.Where("place_name = ? AND location = ?", place, "52.4345,30.9754").FirstOrCreate(placeRow).Error)

	meetup := &models.Meetup{
		MeetupName:  name,
		Description: "description",
		Date:        date,
		ThemeID:     themeRow.ID,
		PlaceID:     placeRow.ID,
	}
	require.NoError(t, db.Create(meetup).Error)
	return meetup
}
