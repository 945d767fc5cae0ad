package models

import "time"

const (
	RoleMember              = "member"
	UserPendingVerification = "pending_verification"
)

// User is one user_<id>.json file in the members directory.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	Token        string    `json:"token"`
	PasswordHash string    `json:"password_hash,omitempty"`
}
