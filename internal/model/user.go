package model

import "time"

// User mirrors the profile document kept for every identity-provider account.
// UID is the provider's id, not a local auto-increment.
type User struct {
	UID         string     `gorm:"primaryKey;size:64" json:"uid"`
	Email       string     `gorm:"size:128;not null;index" json:"email"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}
