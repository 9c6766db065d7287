package models

import "strings"

// UserSession is the identity of the signed-in user as returned by the backend.
type UserSession struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsAdmin   bool   `json:"isAdmin"`
}

// FullName joins first and last name.
func (u UserSession) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Clone returns a copy of u.
func (u *UserSession) Clone() *UserSession {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
