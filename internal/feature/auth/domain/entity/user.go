// Package entity defines the domain models for the auth feature.
package entity

import "time"

// User is an operator account allowed to trigger forced refreshes and read
// cache statistics.
type User struct {
	ID       uint
	Email    string
	Password string // bcrypt hash, never the plaintext
	Created  time.Time
}
