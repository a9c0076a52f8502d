package models

import "time"

// User is a console operator. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
