package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an account independent of any resume. Emails are stored
// lower-cased; the password hash never leaves the service.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
