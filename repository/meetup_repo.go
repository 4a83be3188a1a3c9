package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	apperrors "meetups.app/errors"
	"meetups.app/models"
)

// MeetupRepository handles the meetup lifecycle together with its shared
// Theme and Place dimension rows. Multi-table writes run inside a single
// transaction so dimension rows are never orphaned or duplicated.
type MeetupRepository struct {
	db *gorm.DB
}

// NewMeetupRepository creates a new repository for meetup data
func NewMeetupRepository(db *gorm.DB) *MeetupRepository {
	return &MeetupRepository{db: db}
}

// ErrDuplicateMeetup marks a (name, date, place, theme) uniqueness violation.
var ErrDuplicateMeetup = apperrors.NewAlreadyExistsError("Meetup already created")

const meetupRecordSelect = "meetups.id, meetups.meetup_name, meetups.date, meetups.description, " +
	"themes.theme, themes.tags, places.place_name, places.location"

func meetupRecordQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Meetup{}).
		Select(meetupRecordSelect).
		Joins("JOIN places ON meetups.place_id = places.id").
		Joins("JOIN themes ON meetups.theme_id = themes.id")
}

// FindByID retrieves a meetup row by its ID
func (r *MeetupRepository) FindByID(ctx context.Context, id uint) (*models.Meetup, error) {
	log.Printf("[DEBUG] MeetupRepository.FindByID: id=%d\n", id)

	var meetup models.Meetup
	result := r.db.WithContext(ctx).First(&meetup, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("[ERROR] Database error when finding meetup by ID: %v\n", result.Error)
		return nil, result.Error
	}

	return &meetup, nil
}

// ListAll returns the joined view of every meetup
func (r *MeetupRepository) ListAll(ctx context.Context) ([]models.MeetupRecord, error) {
	log.Println("[DEBUG] MeetupRepository.ListAll called")

	var records []models.MeetupRecord
	result := meetupRecordQuery(r.db.WithContext(ctx)).Scan(&records)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when listing meetups: %v\n", result.Error)
		return nil, result.Error
	}

	return records, nil
}

// ListActual returns the joined view of future-dated meetups only
func (r *MeetupRepository) ListActual(ctx context.Context) ([]models.MeetupRecord, error) {
	log.Println("[DEBUG] MeetupRepository.ListActual called")

	var records []models.MeetupRecord
	result := meetupRecordQuery(r.db.WithContext(ctx)).
		Where("meetups.date >= ?", time.Now().UTC()).
		Scan(&records)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when listing actual meetups: %v\n", result.Error)
		return nil, result.Error
	}

	return records, nil
}

// Create resolves or creates the Theme and Place dimension rows, enforces the
// (name, date, place, theme) uniqueness invariant and inserts the meetup, all
// inside one transaction.
func (r *MeetupRepository) Create(ctx context.Context, req *models.MeetupRequest) (*models.Meetup, error) {
	log.Printf("[DEBUG] MeetupRepository.Create: name=%s\n", req.MeetupName)

	var meetup *models.Meetup
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		theme, err := findOrCreateTheme(tx, req.Theme, req.Tags)
		if err != nil {
			return err
		}

		place, err := findOrCreatePlace(tx, req.PlaceName, req.Location)
		if err != nil {
			return err
		}

		var existing models.Meetup
		result := tx.Where(
			"meetup_name = ? AND date = ? AND place_id = ? AND theme_id = ?",
			req.MeetupName, req.Date, place.ID, theme.ID,
		).First(&existing)
		if result.Error == nil {
			return ErrDuplicateMeetup
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		meetup = &models.Meetup{
			MeetupName:  req.MeetupName,
			Description: req.Description,
			Date:        req.Date,
			ThemeID:     theme.ID,
			PlaceID:     place.ID,
		}
		return tx.Create(meetup).Error
	})
	if err != nil {
		if !errors.Is(err, ErrDuplicateMeetup) {
			log.Printf("[ERROR] Database error when creating meetup: %v\n", err)
		}
		return nil, err
	}

	log.Printf("[DEBUG] Created meetup with ID: %d\n", meetup.ID)
	return meetup, nil
}

// UpdateSets carries the three independent column sets of a partial update.
// Theme and Place sets mutate the shared dimension rows referenced by the
// meetup, affecting every other meetup pointing at the same row.
type UpdateSets struct {
	Meetup map[string]interface{}
	Theme  map[string]interface{}
	Place  map[string]interface{}
}

// Empty reports whether no column set carries data
func (u *UpdateSets) Empty() bool {
	return len(u.Meetup) == 0 && len(u.Theme) == 0 && len(u.Place) == 0
}

// Update applies the three update sets keyed off the meetup's existing
// theme_id/place_id inside one transaction.
func (r *MeetupRepository) Update(ctx context.Context, meetup *models.Meetup, sets *UpdateSets) error {
	log.Printf("[DEBUG] MeetupRepository.Update: id=%d\n", meetup.ID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(sets.Meetup) > 0 {
			if err := tx.Model(&models.Meetup{}).Where("id = ?", meetup.ID).Updates(sets.Meetup).Error; err != nil {
				return err
			}
		}
		if len(sets.Theme) > 0 {
			if err := tx.Model(&models.Theme{}).Where("id = ?", meetup.ThemeID).Updates(sets.Theme).Error; err != nil {
				return err
			}
		}
		if len(sets.Place) > 0 {
			if err := tx.Model(&models.Place{}).Where("id = ?", meetup.PlaceID).Updates(sets.Place).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] Database error when updating meetup: %v\n", err)
		return err
	}

	return nil
}

// Delete removes the meetup and reclaims its Theme/Place dimension rows when
// no other meetup references them anymore. The reference check and the
// conditional delete run inside one transaction holding row locks on the
// dimension rows, so concurrent deletes or creates cannot race the cleanup.
func (r *MeetupRepository) Delete(ctx context.Context, meetupID uint) error {
	log.Printf("[DEBUG] MeetupRepository.Delete: id=%d\n", meetupID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meetup models.Meetup
		if err := lockForUpdate(tx).First(&meetup, meetupID).Error; err != nil {
			return err
		}

		// Lock the dimension rows before counting references so a
		// concurrent create or delete serializes behind this cleanup.
		var theme models.Theme
		if err := lockForUpdate(tx).First(&theme, meetup.ThemeID).Error; err != nil {
			return err
		}
		var place models.Place
		if err := lockForUpdate(tx).First(&place, meetup.PlaceID).Error; err != nil {
			return err
		}

		if err := tx.Where("meetup_id = ?", meetupID).Delete(&models.MeetupUser{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Meetup{}, meetupID).Error; err != nil {
			return err
		}

		var themeRefs int64
		if err := tx.Model(&models.Meetup{}).Where("theme_id = ?", meetup.ThemeID).Count(&themeRefs).Error; err != nil {
			return err
		}
		if themeRefs == 0 {
			if err := tx.Delete(&models.Theme{}, meetup.ThemeID).Error; err != nil {
				return err
			}
		}

		var placeRefs int64
		if err := tx.Model(&models.Meetup{}).Where("place_id = ?", meetup.PlaceID).Count(&placeRefs).Error; err != nil {
			return err
		}
		if placeRefs == 0 {
			if err := tx.Delete(&models.Place{}, meetup.PlaceID).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("[ERROR] Database error when deleting meetup: %v\n", err)
		return err
	}

	log.Printf("[DEBUG] Deleted meetup %d\n", meetupID)
	return nil
}

// lockForUpdate adds a row lock on databases that support it. SQLite, used
// by the test suite, serializes writers on its own and has no FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func findOrCreateTheme(tx *gorm.DB, name, tags string) (*models.Theme, error) {
	var theme models.Theme
	result := tx.Where("theme = ? AND tags = ?", name, tags).First(&theme)
	if result.Error == nil {
		return &theme, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	theme = models.Theme{Theme: name, Tags: tags}
	if err := tx.Create(&theme).Error; err != nil {
		return nil, err
	}
	return &theme, nil
}

func findOrCreatePlace(tx *gorm.DB, name, location string) (*models.Place, error) {
	var place models.Place
	result := tx.Where("place_name = ? AND location = ?", name, location).First(&place)
	if result.Error == nil {
		return &place, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	place = models.Place{PlaceName: name, Location: location}
	if err := tx.Create(&place).Error; err != nil {
		return nil, err
	}
	return &place, nil
}
