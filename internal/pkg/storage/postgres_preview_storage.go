package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/Vodeneev/betpreview/internal/pkg/config"
	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// Ensure PostgresPreviewStorage implements PreviewStorage
var _ PreviewStorage = (*PostgresPreviewStorage)(nil)

// PostgresPreviewStorage stores preview snapshots in PostgreSQL, one row per
// (match_id, variant).
type PostgresPreviewStorage struct {
	db *sql.DB
}

// NewPostgresPreviewStorage creates a new PostgreSQL storage for previews.
func NewPostgresPreviewStorage(cfg *config.PostgresConfig) (*PostgresPreviewStorage, error) {
	if cfg == nil || cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresPreviewStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL preview storage initialized successfully")
	return s, nil
}

func (s *PostgresPreviewStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS preview_snapshots (
		id SERIAL PRIMARY KEY,
		match_id VARCHAR(32) NOT NULL,
		variant VARCHAR(100) NOT NULL,
		home_team VARCHAR(255) NOT NULL DEFAULT '',
		away_team VARCHAR(255) NOT NULL DEFAULT '',
		classification VARCHAR(32) NOT NULL DEFAULT '',
		payload JSONB NOT NULL,
		recorded_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(match_id, variant)
	);

	CREATE INDEX IF NOT EXISTS idx_preview_snapshots_recorded_at ON preview_snapshots(recorded_at);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// StorePreview saves the preview as JSON.
// Uses UPSERT: one row per (match_id, variant), updated on each call.
func (s *PostgresPreviewStorage) StorePreview(ctx context.Context, matchID, variant string, result models.PreviewResult, recordedAt time.Time) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}

	query := `
	INSERT INTO preview_snapshots (
		match_id, variant, home_team, away_team,
		classification, payload, recorded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (match_id, variant) DO UPDATE SET
		home_team = EXCLUDED.home_team,
		away_team = EXCLUDED.away_team,
		classification = EXCLUDED.classification,
		payload = EXCLUDED.payload,
		recorded_at = EXCLUDED.recorded_at
	`
	_, err = s.db.ExecContext(ctx, query,
		matchID, variant, result.HomeTeam, result.AwayTeam,
		string(result.Classification), payload, recordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store preview %s: %w", matchID, err)
	}
	return nil
}

// GetLatestPreview returns the stored preview of (match_id, variant).
func (s *PostgresPreviewStorage) GetLatestPreview(ctx context.Context, matchID, variant string) (models.PreviewResult, time.Time, bool, error) {
	query := `
	SELECT payload, recorded_at FROM preview_snapshots
	WHERE match_id = $1 AND variant = $2
	`
	var payload []byte
	var recordedAt time.Time
	err := s.db.QueryRowContext(ctx, query, matchID, variant).Scan(&payload, &recordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PreviewResult{}, time.Time{}, false, nil
	}
	if err != nil {
		return models.PreviewResult{}, time.Time{}, false, fmt.Errorf("failed to get preview %s: %w", matchID, err)
	}

	var result models.PreviewResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return models.PreviewResult{}, time.Time{}, false, fmt.Errorf("failed to decode preview %s: %w", matchID, err)
	}
	return result, recordedAt, true, nil
}

// CleanOlderThan deletes snapshots recorded before cutoff.
func (s *PostgresPreviewStorage) CleanOlderThan(ctx context.Context, cutoff time.Time) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM preview_snapshots WHERE recorded_at < $1`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean preview_snapshots: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows > 0 {
		slog.Info("Cleaned old preview snapshots", "rows_deleted", rows)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresPreviewStorage) Close() error {
	return s.db.Close()
}
