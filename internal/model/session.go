package model

import "time"

// Session binds an opaque server-generated token to a user identity.
// UserID is a weak reference: the session may outlive the user record it
// points at, which is exactly the case the auth gate has to detect.
type Session struct {
	ID        string    `json:"id" gorm:"type:char(64);primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	ReturnTo  string    `json:"-" gorm:"size:512"` // original URL to resume after login, consumed once
	CreatedAt time.Time `json:"created_at"`
}
