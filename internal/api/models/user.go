package models

import "time"

// User represents a user in the database.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	AuthToken    *string   `db:"auth_token"`
	DateJoined   time.Time `db:"date_joined"`
}

// RegisterRequest defines the structure for a user registration request.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,notblank,max=150"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Email     string `json:"email" binding:"omitempty,email"`
	Password  string `json:"password" binding:"required,maxbytes=72"`
}

// LoginRequest defines the structure for a user login request.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by register and login. Token is empty when the
// active strategy does not hand out a credential in the body.
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}
