package domain

import "time"

// User represents a registered account of the reservation system.
type User struct {
	ID              string
	Email           string
	HashedPassword  string
	Name            string
	PhoneNumber     string
	ProfileImageURL string
	IsActive        bool
	IsAdmin         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastLoginAt     *time.Time
}
