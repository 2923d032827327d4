package models

// User represents a person known to the system.
//
// Users arrive two ways: synced from the identity provider on first verified
// request (ExternalID holds the provider subject), or created by the seed
// script (ExternalID empty).
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address. May be empty for seeded users.
	Email string

	// ExternalID is the identity provider's subject claim ("sub").
	// Empty for users that never signed in through the provider.
	ExternalID string

	// CreatedAt is the Unix timestamp when the user was first seen.
	CreatedAt int64
}
