// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned by repositories when no user matches an email.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when registering an email that is already taken.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPasswordTooLong is returned when a password exceeds the 72 bytes bcrypt can hash.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)
