package repository

import (
	"media-catalog/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Review  ReviewStore
}

// NewRepository wires the Postgres-backed identity repositories and the
// remote review store into one aggregate.
func NewRepository(db database.PgxIface, reviews ReviewStore, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Review:  reviews,
	}
}
