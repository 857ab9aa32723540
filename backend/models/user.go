package models

import (
	"time"

	"gorm.io/gorm"
)

// AnonymousUserID is the shared key used for progress of viewers that are not logged in.
const AnonymousUserID uint = 0

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ProfilePic   string `json:"profile_pic"`
	Role         string `gorm:"default:user" json:"role"` // user, admin
}

// UserSettings is the typed per-user preference record. Defaults live in
// DefaultSettings rather than column defaults so false and empty values persist.
type UserSettings struct {
	UserID            uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	AIFeaturesEnabled bool      `gorm:"not null" json:"ai_features_enabled"`
	AIProvider        string    `gorm:"not null" json:"ai_provider" validate:"oneof=gemini local"`
	GeminiAPIKey      string    `json:"gemini_api_key,omitempty"`
	GeminiModel       string    `gorm:"not null" json:"gemini_model" validate:"required,excludesall=/"`
	LocalModel        string    `json:"local_model"`
	LocalAIURL        string    `json:"local_ai_url" validate:"omitempty,url"`
	LocalWhisperURL   string    `json:"local_whisper_url" validate:"omitempty,url"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings a user has before saving any.
func DefaultSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:            userID,
		AIFeaturesEnabled: true,
		AIProvider:        "gemini",
		GeminiModel:       "gemini-2.0-flash",
		LocalAIURL:        "http://localhost:1234/v1/chat/completions",
		LocalWhisperURL:   "http://localhost:9000/v1/audio/transcriptions",
	}
}
