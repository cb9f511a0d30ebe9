package models

import "time"

// User is a stored credential record. PasswordHash is a bcrypt encoding and
// must never be logged or returned to clients.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}
