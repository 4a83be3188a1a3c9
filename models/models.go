// Package models defines data structures used throughout the application
package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:40;not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:256;not null"`
	Confirmed    bool      `json:"confirmed" gorm:"default:false"`
	IsActive     bool      `json:"is_active" gorm:"default:false"`
	IsSuper      bool      `json:"is_super" gorm:"default:false"`
	FirstName    *string   `json:"first_name,omitempty" gorm:"size:64"`
	LastName     *string   `json:"last_name,omitempty" gorm:"size:64"`
	AvatarURL    *string   `json:"avatar_url,omitempty" gorm:"size:256"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Token represents an opaque bearer session token
type Token struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	Token   string    `json:"token" gorm:"uniqueIndex;not null"`
	Expires time.Time `json:"expires"`
	UserID  uint      `json:"user_id" gorm:"index;not null"`
	User    User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Theme is a shared meetup dimension row, unique per (theme, tags)
type Theme struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Theme string `json:"theme" gorm:"size:128;index:idx_theme_tags,unique"`
	Tags  string `json:"tags" gorm:"size:128;index:idx_theme_tags,unique"`
}

// Place is a shared meetup dimension row, unique per (place_name, location)
type Place struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	PlaceName string `json:"place_name" gorm:"size:128;index:idx_place_location,unique"`
	Location  string `json:"location" gorm:"size:128;index:idx_place_location,unique"` // "lat,lon"
}

// Meetup references exactly one Theme and one Place
type Meetup struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	MeetupName  string    `json:"meetup_name" gorm:"size:128;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Date        time.Time `json:"date" gorm:"not null"`
	ThemeID     uint      `json:"theme_id" gorm:"index;not null"`
	PlaceID     uint      `json:"place_id" gorm:"index;not null"`
	Theme       Theme     `json:"-" gorm:"foreignKey:ThemeID"`
	Place       Place     `json:"-" gorm:"foreignKey:PlaceID"`
}

// MeetupUser is the user-to-meetup subscription pair
type MeetupUser struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   uint   `json:"user_id" gorm:"index:idx_user_meetup,unique;not null"`
	MeetupID uint   `json:"meetup_id" gorm:"index:idx_user_meetup,unique;not null"`
	User     User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Meetup   Meetup `json:"-" gorm:"foreignKey:MeetupID;constraint:OnDelete:CASCADE"`
}

// MeetupRecord is the joined meetup view returned by list and search endpoints
type MeetupRecord struct {
	ID          uint      `json:"id"`
	MeetupName  string    `json:"meetup_name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Theme       string    `json:"theme"`
	Tags        string    `json:"tags"`
	PlaceName   string    `json:"place_name"`
	Location    string    `json:"location"`
}

// SignUpRequest represents data required to register a new user
type SignUpRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Username  string  `json:"username" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// SignInRequest represents form credentials for authentication
type SignInRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ProfileUpdateRequest carries partial profile changes; nil fields are ignored
type ProfileUpdateRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// IsEmpty reports whether the update carries no data at all
func (r *ProfileUpdateRequest) IsEmpty() bool {
	return r.Email == nil && r.Password == nil && r.FirstName == nil && r.LastName == nil
}

// MeetupRequest represents data required to create a meetup
type MeetupRequest struct {
	MeetupName  string    `json:"meetup_name" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Theme       string    `json:"theme" binding:"required"`
	Tags        string    `json:"tags" binding:"required"`
	PlaceName   string    `json:"place_name" binding:"required"`
	Location    string    `json:"location" binding:"required"`
}

// MeetupUpdateRequest carries partial meetup changes; nil fields are ignored
type MeetupUpdateRequest struct {
	MeetupName  *string    `json:"meetup_name"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Theme       *string    `json:"theme"`
	Tags        *string    `json:"tags"`
	PlaceName   *string    `json:"place_name"`
	Location    *string    `json:"location"`
}

// IsEmpty reports whether the update carries no data at all
func (r *MeetupUpdateRequest) IsEmpty() bool {
	return r.MeetupName == nil && r.Description == nil && r.Date == nil &&
		r.Theme == nil && r.Tags == nil && r.PlaceName == nil && r.Location == nil
}

// UserProfile is the authenticated user projection
type UserProfile struct {
	ID        uint    `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	IsSuper   bool    `json:"is_super"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
}

// TokenResponse is the sign-in response body
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	Expires     time.Time `json:"expires"`
	TokenType   string    `json:"token_type"`
}

// SimpleMessage is the uniform application-level response shape
type SimpleMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ReportResponse carries the path of a generated report file
type ReportResponse struct {
	Path string `json:"path"`
}
