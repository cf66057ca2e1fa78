package model

import "time"

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Message is one entry in a user's append-only chat log. Rows are immutable
// once written; retrieval is always ordered by CreatedAt ascending.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UID       string    `gorm:"size:64;not null;index" json:"uid"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
