package users

import "time"

// User is a credential-store record. PasswordHash and Salt never leave the
// service layer.
type User struct {
	ID           string
	Email        string
	Name         string
	Bio          string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}

// ProfileUpdate carries the mutable profile fields; nil means "leave as is".
type ProfileUpdate struct {
	Name *string
	Bio  *string
}
