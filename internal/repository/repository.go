package repository

import (
	"context"
	"database/sql"
	"time"

	"controlling_led/internal/models"
)

type EventRepo interface {
	Append(ctx context.Context, e models.LedEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.LedEvent, error)
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}
