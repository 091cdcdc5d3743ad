package middleware

import (
	"net/http"
	"strings"

	"media-catalog/internal/data/entity"
	"media-catalog/internal/data/repository"
	"media-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// resolveSession turns a bearer token into (userID, username, role). A nil
// result with no error means the token is missing, malformed, expired or
// revoked.
func resolveSession(r *http.Request, sessionRepo repository.SessionRepository, userRepo repository.UserRepository, logger *zap.Logger) (*entity.Session, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, nil
	}
	token := parts[1]

	// Tokens are uuids; anything else would fail the uuid cast in the
	// sessions query and surface as a database error instead of a plain
	// invalid token.
	if _, err := uuid.Parse(token); err != nil {
		return nil, nil
	}

	sessionRow, err := sessionRepo.FindValidSession(r.Context(), token)
	if err != nil {
		return nil, err
	}
	if sessionRow == nil {
		return nil, nil
	}

	user, err := userRepo.FindByID(r.Context(), sessionRow.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		logger.Warn("Session resolves to missing or inactive user",
			zap.String("user_id", sessionRow.UserID.String()))
		return nil, nil
	}

	return &entity.Session{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     entity.NormalizeRole(string(user.Role)),
	}, nil
}

// AuthSession requires a valid session token and stores the resolved
// identity in the request context.
func AuthSession(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := resolveSession(r, sessionRepo, userRepo, logger)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if session == nil {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetSessionContext(r.Context(), session.UserID, session.Username, string(session.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession resolves a session when a token is present and continues
// anonymously otherwise. Public review listings use it so a logged-in caller
// also gets their own review back.
func OptionalSession(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := resolveSession(r, sessionRepo, userRepo, logger)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetSessionContext(r.Context(), session.UserID, session.Username, string(session.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin gates a route group to admin sessions. It only pre-filters what the
// router exposes; the service layer makes the authoritative access decision.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _, role, ok := utils.GetSessionContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if entity.NormalizeRole(role) != entity.RoleAdmin {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
