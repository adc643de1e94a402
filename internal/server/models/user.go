// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash and Token never leave the
// service layer; the HTTP boundary exposes only the public profile fields.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string

	// Token is the current bearer credential. A token validates only if it
	// equals this stored value and TokenExpireAt is in the future, so issuing
	// a new token supersedes the previous one and logout can invalidate
	// early by moving TokenExpireAt into the past.
	Token         string
	TokenExpireAt time.Time

	CreatedAt time.Time
}
