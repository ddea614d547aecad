package model

import "time"

// Admin represents a staff account allowed into the admin API.
type Admin struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Principal is the authenticated caller resolved from a token.
type Principal struct {
	Email   string
	IsAdmin bool
}
