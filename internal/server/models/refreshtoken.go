package models

import "time"

// RefreshToken is an issued refresh token joined with the owner's username,
// which is needed to mint the next access token.
type RefreshToken struct {
	UserID   string
	Username string
	Token    string
	Expires  time.Time
}
