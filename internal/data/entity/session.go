package entity

type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
)

// NormalizeRole maps unknown role strings to anonymous.
func NormalizeRole(role string) Role {
	switch Role(role) {
	case RoleUser, RoleAdmin:
		return Role(role)
	default:
		return RoleAnonymous
	}
}

// Session is the caller identity for one logical request. The auth middleware
// builds it once per request from the bearer token and it is threaded
// explicitly from there; nothing below the handler layer reads identity from
// ambient state.
type Session struct {
	UserID   string
	Username string
	Role     Role
}

func AnonymousSession() Session {
	return Session{Role: RoleAnonymous}
}

func (s Session) IsAuthenticated() bool {
	return s.Role == RoleUser || s.Role == RoleAdmin
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
