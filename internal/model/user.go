package model

import "time"

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database. The
// password hash is never serialized; the json:"-" tag strips it from
// every response that embeds a User.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name shown on the dashboard.
//  EmployeeID   – unique HR identifier (e.g. "EMP-0042").
//  Role         – one of the Role* constants defined in role.go.
//  IsActive     – whether the account is active.
//  LoginTime    – when the user last opened the dashboard (nullable).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	EmployeeID   string     `json:"employee_id"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LoginTime    *time.Time `json:"login_time,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and carries metadata for expiry and
// revocation. The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
