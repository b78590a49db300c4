package domain

import "time"

// User is a registered account. PasswordHash always holds the bcrypt output,
// never the plaintext, and is never serialized.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Identification string    `json:"identification"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserUpdate carries the fields to replace on an existing user.
// A nil field is left untouched.
type UserUpdate struct {
	Name           *string
	Identification *string
	Email          *string
	Age            *int
	Username       *string
	PasswordHash   *string
}

// IsEmpty reports whether no field was supplied.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil &&
		u.Identification == nil &&
		u.Email == nil &&
		u.Age == nil &&
		u.Username == nil &&
		u.PasswordHash == nil
}
