package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"meetups.app/models"
)

func TestUserRepository_CheckAvailability(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	existing := createTestUser(t, db, "taken@example.com", "taken")

	t.Run("BothFree", func(t *testing.T) {
		verdict, err := repo.CheckAvailability(ctx, "free", "free@example.com")
		require.NoError(t, err)
		assert.Nil(t, verdict.EmailID)
		assert.Nil(t, verdict.UsernameID)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		verdict, err := repo.CheckAvailability(ctx, "free", "taken@example.com")
		require.NoError(t, err)
		require.NotNil(t, verdict.EmailID)
		assert.Equal(t, existing.ID, *verdict.EmailID)
		assert.Nil(t, verdict.UsernameID)
	})

	t.Run("BothTaken", func(t *testing.T) {
		verdict, err := repo.CheckAvailability(ctx, "taken", "taken@example.com")
		require.NoError(t, err)
		require.NotNil(t, verdict.EmailID)
		require.NotNil(t, verdict.UsernameID)
	})
}

func TestUserRepository_Activate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Email:        "inactive@example.com",
		Username:     "inactive",
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(user).Error)

	t.Run("KnownUsername", func(t *testing.T) {
		activated, err := repo.Activate(ctx, "inactive")
		require.NoError(t, err)
		require.NotNil(t, activated)

		var fresh models.User
		require.NoError(t, db.First(&fresh, user.ID).Error)
		assert.True(t, fresh.Confirmed)
		assert.True(t, fresh.IsActive)
	})

	t.Run("UnknownUsername", func(t *testing.T) {
		activated, err := repo.Activate(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, activated)
	})
}

func TestUserRepository_UpdateFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "edit@example.com", "editme")

	err := repo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"email":     "new@example.com",
		"confirmed": false,
		"is_active": false,
	})
	require.NoError(t, err)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, "new@example.com", fresh.Email)
	assert.False(t, fresh.Confirmed)
	assert.False(t, fresh.IsActive)
}

func TestUserRepository_Delete_Cascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	tokenRepo := NewTokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "gone@example.com", "goner")
	meetup := createTestMeetup(t, db, "Cascade", "cascade-theme", "cascade-place", futureDate())

	_, err := tokenRepo.CreateToken(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.MeetupUser{UserID: user.ID, MeetupID: meetup.ID}).Error)

	require.NoError(t, repo.Delete(ctx, user.ID))

	var userCount, tokenCount, subCount int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&userCount)
	db.Model(&models.Token{}).Where("user_id = ?", user.ID).Count(&tokenCount)
	db.Model(&models.MeetupUser{}).Where("user_id = ?", user.ID).Count(&subCount)
	assert.EqualValues(t, 0, userCount)
	assert.EqualValues(t, 0, tokenCount)
	assert.EqualValues(t, 0, subCount)
}
