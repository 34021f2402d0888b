package models

import "github.com/google/uuid"

// User is a registered account. The game core never touches this; it only
// sees the uuid handed out after the credential check passes.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Password string    `json:"password,omitempty"`

	IsGuest bool `json:"is_guest"`
}
