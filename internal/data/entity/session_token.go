package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionToken is a row in the sessions table. Tokens are issued by the
// identity provider; this service only resolves them into a Session.
type SessionToken struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
