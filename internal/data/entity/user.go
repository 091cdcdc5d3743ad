package entity

// User carries the profile fields this service needs to build a Session.
// Credential state lives with the identity provider and is not modeled here.
type User struct {
	Base
	Username string `db:"username"`
	Email    string `db:"email"`
	Role     Role   `db:"role"`
	IsActive bool   `db:"is_active"`
}
