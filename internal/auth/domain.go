package auth

import "time"

// Account represents a login-capable user record.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Approved     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
