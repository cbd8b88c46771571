package domain

import "time"

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

func ValidExperienceLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// User is the aggregate root of the membership core. Programme and
// ExperienceLevel stay nil until a Google-created account completes its
// profile. Code/expiry pairs are always set and cleared together.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"not null" json:"full_name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`

	Programme       *string `json:"programme,omitempty"`
	ExperienceLevel *string `gorm:"type:varchar(20)" json:"experience_level,omitempty"`
	Picture         *string `json:"picture,omitempty"`

	PasswordHash *string `json:"-"`
	GoogleSub    *string `gorm:"uniqueIndex" json:"-"`

	Verified                  bool       `gorm:"not null;default:false" json:"is_verified"`
	VerificationCode          *string    `json:"-"`
	VerificationCodeExpiresAt *time.Time `json:"-"`

	ResetCode          *string    `json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`

	Enabled bool `gorm:"not null;default:true" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// ProfileComplete reports whether the account has finished profile setup.
// Google-created accounts start without programme/experience level.
func (u *User) ProfileComplete() bool {
	return u.Programme != nil && u.ExperienceLevel != nil
}
