package model

import "time"

// User represents a registered account as stored in the `users`
// table.  Users authenticate with an email and password and book
// tables under their own identity.  The Role field carries the
// value encoded into JWT claims (CUSTOMER or OWNER).
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name of the user.
//  Email          – unique login email.
//  Phone          – contact phone number (nullable).
//  HashedPassword – bcrypt hash of the password; never serialized.
//  Role           – role name used for authorization.
//  CreatedAt      – timestamp of creation.
type User struct {
	ID             uint64    `json:"id"`              // users.id
	Name           string    `json:"name"`            // users.name
	Email          string    `json:"email"`           // users.email
	Phone          *string   `json:"phone,omitempty"` // users.phone (nullable)
	HashedPassword string    `json:"-"`               // users.hashed_password
	Role           string    `json:"role"`            // users.role
	CreatedAt      time.Time `json:"created_at"`      // users.created_at
}
