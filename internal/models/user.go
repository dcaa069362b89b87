package models

import "time"

// User represents an operator who creates records in the system.
type User struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	MobileNumber          string    `json:"mobile_number"`
	SecondaryMobileNumber *string   `json:"secondary_mobile_number"`
	State                 *string   `json:"state"`
	PasswordHash          string    `json:"-"`
	Role                  string    `json:"role"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// SignupRequest is the request body for user registration.
type SignupRequest struct {
	Name                  string  `json:"name"`
	MobileNumber          string  `json:"mobile_number"`
	SecondaryMobileNumber *string `json:"secondary_mobile_number"`
	State                 *string `json:"state"`
	Password              string  `json:"password"`
}

// LoginRequest is the request body for password login.
type LoginRequest struct {
	MobileNumber string `json:"mobile_number"`
	Password     string `json:"password"`
}

// LoginResponse carries the issued bearer token and the user it belongs to.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
