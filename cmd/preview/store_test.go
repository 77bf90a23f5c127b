package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

type fakeStorage struct {
	snapshots map[string]models.PreviewResult
	getErr    error
	cutoff    time.Time
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{snapshots: map[string]models.PreviewResult{}}
}

func (f *fakeStorage) StorePreview(_ context.Context, matchID, variant string, result models.PreviewResult, _ time.Time) error {
	f.snapshots[variant+":"+matchID] = result
	return nil
}

func (f *fakeStorage) GetLatestPreview(_ context.Context, matchID, variant string) (models.PreviewResult, time.Time, bool, error) {
	if f.getErr != nil {
		return models.PreviewResult{}, time.Time{}, false, f.getErr
	}
	r, ok := f.snapshots[variant+":"+matchID]
	return r, time.Time{}, ok, nil
}

func (f *fakeStorage) CleanOlderThan(_ context.Context, cutoff time.Time) error {
	f.cutoff = cutoff
	return nil
}

func (f *fakeStorage) Close() error { return nil }

func withLine(line string) models.PreviewResult {
	return models.PreviewResult{MatchID: "123", Handicap: &models.HandicapInfo{Line: line}}
}

func TestRecordPreview(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	st := newFakeStorage()

	steps := []struct {
		line  string
		moved bool
	}{
		{"0.5", false},
		{"0.5", false},
		{"0.75", true},
	}
	for i, step := range steps {
		moved, err := recordPreview(ctx, st, "preview", "123", withLine(step.line), now)
		if err != nil {
			t.Fatalf("step %d: recordPreview: %v", i, err)
		}
		if moved != step.moved {
			t.Errorf("step %d: moved = %v, want %v", i, moved, step.moved)
		}
	}
	if got := st.snapshots["preview:123"].Handicap.Line; got != "0.75" {
		t.Errorf("stored line = %q, want 0.75", got)
	}
}

func TestRecordPreviewStoresWhenReadFails(t *testing.T) {
	st := newFakeStorage()
	st.getErr = errors.New("connection reset")

	moved, err := recordPreview(context.Background(), st, "preview", "123", withLine("0.5"), time.Now())
	if err != nil || moved {
		t.Fatalf("recordPreview = %v, %v, want false, nil", moved, err)
	}
	if _, ok := st.snapshots["preview:123"]; !ok {
		t.Error("snapshot not stored")
	}
}

func TestPruneSnapshots(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	st := newFakeStorage()
	if err := pruneSnapshots(context.Background(), st, 0, now); err != nil || !st.cutoff.IsZero() {
		t.Errorf("zero retention: err = %v, cutoff = %v", err, st.cutoff)
	}
	if err := pruneSnapshots(context.Background(), st, 72*time.Hour, now); err != nil {
		t.Fatal(err)
	}
	if want := now.Add(-72 * time.Hour); !st.cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", st.cutoff, want)
	}
}
