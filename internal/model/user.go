package model

import "time"

// User represents an application user record as stored in the
// `users` table.  Username and Email are unique and stored lower-cased.
// The json tags are omitted because handlers expose their own response
// types; PasswordHash must never leave the service.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Firstname    string    // users.firstname
    Username     string    // users.username
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RevokedToken models an entry in the `revoked_tokens` table.  Only the
// SHA-256 hash of a logged-out access token is kept, until the token
// would have expired anyway.
type RevokedToken struct {
    TokenHash string    // revoked_tokens.token_hash
    ExpiresAt time.Time // revoked_tokens.expires_at
    CreatedAt time.Time // revoked_tokens.created_at
}
