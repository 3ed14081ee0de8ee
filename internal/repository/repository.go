package repository

import (
	"context"
	"database/sql"
	"time"

	wc "window_comfort"
	"window_comfort/internal/repository/db"
)

// InitDB opens the backing SQLite database and ensures the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*wc.User, error)
}

// EventRepo is the append-only notification event log.
type EventRepo interface {
	Append(ctx context.Context, e wc.NotificationEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]wc.NotificationEvent, error)
}

type Repository struct {
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
