package dto

import "strings"

// SignupPath is the route the sign-up form posts to.
const SignupPath = "/api/auth/sign-up"

// UserSignupRequestDTO is the body of a sign-up submission.
type UserSignupRequestDTO struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Normalize trims the identity fields and lowercases the email so the same
// address always maps to the same account. Passwords are left untouched.
func (r *UserSignupRequestDTO) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
}

// UserSignupErrorResponseDTO is returned with every rejected submission.
type UserSignupErrorResponseDTO struct {
	ErrorMessages []string `json:"errorMessages"`
}
