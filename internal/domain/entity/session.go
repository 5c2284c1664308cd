package entity

import "time"

// Session is the verified content of a session token.
type Session struct {
	TokenID   string
	Device    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
