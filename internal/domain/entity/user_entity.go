package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// PasswordHash holds a bcrypt hash and is never serialized to clients;
// ResetToken is non-nil only while a password reset is pending.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	ResetToken   *string
	ResumeURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the projection returned by login and profile endpoints.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ResumeURL string    `json:"resume_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		ResumeURL: u.ResumeURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
