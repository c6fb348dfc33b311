package entity

import (
	"time"
)

// User is the sole aggregate of the credential store. Passwords are kept as
// bcrypt digests; SessionToken and ResetToken are opaque bearer credentials
// where a nil pointer means "no active session" / "no reset in progress".
type User struct {
	ID             string
	Email          string
	HashedPassword string
	SessionToken   *string
	ResetToken     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
