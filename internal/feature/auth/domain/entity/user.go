// Package entity defines the domain entities for the auth feature.
package entity

// User represents a registered customer.
type User struct {
	// ID is the store-assigned identifier (ObjectID hex or UUID depending on the store).
	ID string

	// Name is the display name given at registration.
	Name string

	// Email is the login key. It is unique across all users.
	Email string

	// Password is the bcrypt hash of the user's password, never the plaintext.
	Password string
}
