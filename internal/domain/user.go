package domain

import "time"

// User is one registered account. Email is the login key and is unique
// across all accounts; the store enforces that. PasswordHash is never
// serialized into responses.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
