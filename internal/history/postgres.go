package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"video-upscaler-backend/internal/database"
	"video-upscaler-backend/internal/models"
)

type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore opens the database and applies pending migrations.
func NewPostgresStore(ctx context.Context, connectionString string, logger *slog.Logger) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := database.NewMigrator(db, logger).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Insert(ctx context.Context, entry models.HistoryEntry) (string, error) {
	entry.ID = uuid.NewString()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO video_history (id, user_id, original_video_url, enhanced_video_url, status,
			created_at, ended_at, model, resolution, predict_time, updated_at)
		VALUES (:id, :user_id, :original_video_url, :enhanced_video_url, :status,
			:created_at, :ended_at, :model, :resolution, :predict_time, :updated_at)
	`, entry)
	if err != nil {
		return "", &models.StoreError{Store: "postgres", Op: "insert", Err: err}
	}
	return entry.ID, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, original_video_url, enhanced_video_url, status,
			created_at, ended_at, model, resolution, predict_time, updated_at
		FROM video_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, &models.StoreError{Store: "postgres", Op: "select", Err: err}
	}
	return entries, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &models.StoreError{Store: "postgres", Op: "ping", Err: errors.Join(models.ErrStoreUnavailable, err)}
	}
	return nil
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}
