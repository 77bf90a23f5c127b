package notify

import (
	"context"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func alertingResult() models.PreviewResult {
	return models.PreviewResult{
		MatchID:  "123",
		HomeTeam: "Alpha FC",
		AwayTeam: "Beta United",
		Handicap: &models.HandicapInfo{Line: "0.5", Favorite: "Alpha FC", CoverOnLastH2H: models.Covered},
		FavoriteAttacks: &models.AttackComparison{
			Team: "Alpha FC", Rival: "Gamma", Own: 60, Against: 40, Difference: 20, VerySuperior: true,
		},
	}
}

func TestAlerts(t *testing.T) {
	tests := []struct {
		name   string
		result models.PreviewResult
		want   int
	}{
		{"both", alertingResult(), 2},
		{"error result", models.ErrorResult(models.Timeout, "slow"), 0},
		{"nothing notable", models.PreviewResult{Handicap: &models.HandicapInfo{Favorite: "Alpha FC", CoverOnLastH2H: models.NotCovered}}, 0},
		{"no favorite", models.PreviewResult{Handicap: &models.HandicapInfo{CoverOnLastH2H: models.Covered}}, 0},
	}
	for _, tt := range tests {
		if got := Alerts(tt.result); len(got) != tt.want {
			t.Errorf("%s: Alerts() = %q, want %d reasons", tt.name, got, tt.want)
		}
	}
}

func TestNotifyPreviewSendsQueuedAlerts(t *testing.T) {
	sender := &fakeSender{}
	n := newNotifier(sender, 42, 0)

	ctx := context.Background()
	if err := n.NotifyPreview(ctx, alertingResult()); err != nil {
		t.Fatalf("NotifyPreview: %v", err)
	}
	if err := n.NotifyPreview(ctx, models.PreviewResult{MatchID: "9"}); err != nil {
		t.Fatalf("NotifyPreview without alert: %v", err)
	}
	n.Stop()

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.ChatID != 42 || msg.ParseMode != tgbotapi.ModeMarkdownV2 {
		t.Errorf("message chat = %d, mode = %q", msg.ChatID, msg.ParseMode)
	}
	if !strings.Contains(msg.Text, "Alpha FC vs Beta United") || !strings.Contains(msg.Text, "0\\.5") {
		t.Errorf("message text = %q", msg.Text)
	}
}

func TestNilNotifier(t *testing.T) {
	var n *TelegramNotifier
	if err := n.NotifyPreview(context.Background(), alertingResult()); err != nil {
		t.Errorf("nil NotifyPreview = %v, want nil", err)
	}
	if n.QueueLen() != 0 {
		t.Error("nil QueueLen != 0")
	}
	n.Stop()
}

func TestEscapeMarkdown(t *testing.T) {
	if got, want := escapeMarkdown("A.C. (B)-1"), `A\.C\. \(B\)\-1`; got != want {
		t.Errorf("escapeMarkdown = %q, want %q", got, want)
	}
}
