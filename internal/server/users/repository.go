package users

import (
	"context"
)

type Repository interface {
	// Create inserts a new user and returns it with the generated id.
	// A duplicate email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByEmail returns the user with the given email or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID returns the user with the given id or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*User, error)

	// UpdateProfile applies the non-nil fields of upd and returns the updated
	// user, or common.ErrorNotFound.
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error)

	// UpdatePassword replaces the stored salt and password hash.
	UpdatePassword(ctx context.Context, id string, salt, hash []byte) error
}
