package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the account record behind a bearer identity. Accounts are created
// by the auth provider callback flow, not by this service; a request with no
// (or an invalid) token is served in guest mode.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Name      string         `json:"name"`
	Role      string         `gorm:"default:'user';index" json:"role"` // "admin", "beta", "user"
	IsActive  bool           `gorm:"default:true" json:"is_active"`
}

// UserCredits tracks user credit balance
type UserCredits struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Credits   int            `gorm:"default:0;not null" json:"credits"`
}

// UsageLog tracks API usage and credit consumption
type UsageLog struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	User           User      `gorm:"foreignKey:UserID" json:"-"`
	Model          string    `gorm:"not null" json:"model"`
	TotalTokens    int       `gorm:"not null" json:"total_tokens"`
	InputTokens    int       `gorm:"not null" json:"input_tokens"`
	OutputTokens   int       `gorm:"not null" json:"output_tokens"`
	CreditsCharged int       `gorm:"not null" json:"credits_charged"`
	SongsReturned  int       `gorm:"default:0" json:"songs_returned"`
	DurationMS     int       `gorm:"not null" json:"duration_ms"`
	RequestID      string    `gorm:"index" json:"request_id"`
}

// HasUnlimitedCredits reports whether a role is exempt from credit deduction.
func HasUnlimitedCredits(role string) bool {
	return role == "admin" || role == "beta"
}
