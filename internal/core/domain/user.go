package domain

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Hash      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
