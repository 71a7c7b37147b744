package models

import "errors"

// ErrDuplicateEmail is returned by a user store when a record with the same
// email already exists. Stores enforce this at write time.
var ErrDuplicateEmail = errors.New("email address already exists")

// User is a registered account as persisted by a user store.
type User struct {
	ID       string `bson:"-" mapstructure:"id" db:"id"`
	Name     string `bson:"name" mapstructure:"name" db:"name"`
	Email    string `bson:"email" mapstructure:"email" db:"email"`
	Password string `bson:"password" mapstructure:"password" db:"password"`
}

// NewUser creates a new User with no ID; the store assigns one on create.
// Note: No validation is performed here.
func NewUser(name, email, password string) *User {
	return &User{
		Name:     name,
		Email:    email,
		Password: password,
	}
}
