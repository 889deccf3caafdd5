package models

import "time"

// Session is an authorization grant for one chat user.
type Session struct {
	UserID    int64
	ExpiresAt time.Time
}

// ValidAt reports whether the session is still valid at now.
func (s Session) ValidAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
