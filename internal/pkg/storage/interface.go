package storage

import (
	"context"
	"time"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// PreviewStorage keeps the latest preview snapshot of each match.
type PreviewStorage interface {
	// StorePreview saves result as the latest snapshot of (matchID, variant)
	StorePreview(ctx context.Context, matchID, variant string, result models.PreviewResult, recordedAt time.Time) error

	// GetLatestPreview returns the latest snapshot, or ok=false when none exists
	GetLatestPreview(ctx context.Context, matchID, variant string) (result models.PreviewResult, recordedAt time.Time, ok bool, err error)

	// CleanOlderThan deletes snapshots recorded before cutoff
	CleanOlderThan(ctx context.Context, cutoff time.Time) error

	// Close closes the database connection
	Close() error
}
