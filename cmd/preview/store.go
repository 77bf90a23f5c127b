package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
	"github.com/Vodeneev/betpreview/internal/pkg/storage"
)

// recordPreview saves result as the latest snapshot of matchID and reports
// whether the handicap line moved since the previous snapshot.
func recordPreview(ctx context.Context, st storage.PreviewStorage, variant, matchID string, result models.PreviewResult, now time.Time) (bool, error) {
	previous, recordedAt, ok, err := st.GetLatestPreview(ctx, matchID, variant)
	if err != nil {
		slog.Warn("Failed to read previous preview", "match_id", matchID, "error", err)
	}

	moved := ok && lineMoved(previous, result)
	if moved {
		slog.Info("Handicap line moved",
			"match_id", matchID,
			"from", previous.Handicap.Line,
			"to", result.Handicap.Line,
			"previous_recorded_at", recordedAt)
	}

	if err := st.StorePreview(ctx, matchID, variant, result, now); err != nil {
		return moved, err
	}
	return moved, nil
}

func lineMoved(previous, current models.PreviewResult) bool {
	if previous.Handicap == nil || current.Handicap == nil {
		return false
	}
	return previous.Handicap.Line != current.Handicap.Line
}

// pruneSnapshots drops snapshots older than retention. Zero keeps everything.
func pruneSnapshots(ctx context.Context, st storage.PreviewStorage, retention time.Duration, now time.Time) error {
	if retention <= 0 {
		return nil
	}
	return st.CleanOlderThan(ctx, now.Add(-retention))
}
