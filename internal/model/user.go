package model

import "time"

// Role values stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a row of the `users` table.  PasswordHash is never
// serialized; handlers return the struct directly as the public projection.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hash of the password.
//  FullName     – display name given at sign-up.
//  Phone        – optional phone number.
//  Role         – "user" or "admin".  Only changed by direct data edits.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        *string   `json:"phone,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session models an entry in the `sessions` table.  The token is the raw
// value mirrored in the session cookie; a user may hold many sessions
// (one per device).  Sessions are never updated, only deleted.
type Session struct {
	ID        uint64    // sessions.id
	UserID    uint64    // sessions.user_id
	Token     string    // sessions.session_token
	ExpiresAt time.Time // sessions.expires_at
	CreatedAt time.Time // sessions.created_at
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool { return !s.ExpiresAt.After(now) }
