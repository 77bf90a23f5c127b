package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// Min interval between any two Telegram messages to the same chat to avoid 429 Too Many Requests.
const defaultSendInterval = time.Second

const queueSize = 100

// Sender is the part of the bot API the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends preview alerts to a Telegram chat. Messages are
// queued and sent by a background worker, one per interval.
type TelegramNotifier struct {
	sender   Sender
	chatID   int64
	interval time.Duration
	mu       sync.Mutex
	lastSend time.Time

	queue     chan string
	queueDone chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewTelegramNotifier connects to the bot API and starts the sender.
func NewTelegramNotifier(token string, chatID int64, interval time.Duration) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	n := newNotifier(bot, chatID, interval)
	slog.Info("Telegram notifier initialized", "chat_id", chatID, "bot", bot.Self.UserName)
	return n, nil
}

func newNotifier(sender Sender, chatID int64, interval time.Duration) *TelegramNotifier {
	if interval < 0 {
		interval = defaultSendInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	n := &TelegramNotifier{
		sender:    sender,
		chatID:    chatID,
		interval:  interval,
		queue:     make(chan string, queueSize),
		queueDone: make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	go n.messageSender()
	return n
}

// Alerts lists why a preview deserves a message. An empty list means no alert.
func Alerts(result models.PreviewResult) []string {
	if result.Failed() {
		return nil
	}
	var reasons []string
	if fa := result.FavoriteAttacks; fa != nil && fa.VerySuperior {
		reasons = append(reasons, fmt.Sprintf("%s dominated dangerous attacks %d-%d against %s", fa.Team, fa.Own, fa.Against, fa.Rival))
	}
	if h := result.Handicap; h != nil && h.Favorite != "" && h.CoverOnLastH2H == models.Covered {
		reasons = append(reasons, fmt.Sprintf("%s covered %s in the last meeting", h.Favorite, h.Line))
	}
	return reasons
}

// NotifyPreview queues an alert for result when it has one (non-blocking).
// Safe to call on a nil notifier.
func (n *TelegramNotifier) NotifyPreview(ctx context.Context, result models.PreviewResult) error {
	if n == nil {
		return nil
	}
	reasons := Alerts(result)
	if len(reasons) == 0 {
		return nil
	}

	select {
	case <-n.ctx.Done():
		return fmt.Errorf("notifier stopped")
	case <-ctx.Done():
		return ctx.Err()
	case n.queue <- formatPreviewAlert(result, reasons):
		return nil
	default:
		// Queue is full, log warning but don't block
		slog.Warn("Telegram message queue is full, dropping message", "match_id", result.MatchID)
		return fmt.Errorf("message queue is full")
	}
}

// QueueLen returns current number of messages in the send queue.
func (n *TelegramNotifier) QueueLen() int {
	if n == nil {
		return 0
	}
	return len(n.queue)
}

// Stop stops the notifier after the queued messages are sent.
func (n *TelegramNotifier) Stop() {
	if n == nil {
		return
	}
	n.cancel()
	<-n.queueDone
}

// messageSender runs in background and sends queued messages with proper intervals
func (n *TelegramNotifier) messageSender() {
	defer close(n.queueDone)
	for {
		select {
		case <-n.ctx.Done():
			// Drain remaining messages before exit
			for {
				select {
				case text := <-n.queue:
					n.send(text)
				default:
					return
				}
			}
		case text := <-n.queue:
			n.wait()
			n.send(text)
		}
	}
}

// wait sleeps until the send interval since the last message has passed.
func (n *TelegramNotifier) wait() {
	n.mu.Lock()
	elapsed := time.Since(n.lastSend)
	n.mu.Unlock()
	if elapsed >= n.interval {
		return
	}
	select {
	case <-n.ctx.Done():
	case <-time.After(n.interval - elapsed):
	}
}

func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	n.mu.Lock()
	n.lastSend = time.Now()
	n.mu.Unlock()

	start := time.Now()
	if _, err := n.sender.Send(msg); err != nil {
		slog.Error("Telegram send: failed", "error", err, "message_preview", truncateString(text, 50))
		return
	}
	slog.Info("Telegram send: success", "send_duration", time.Since(start), "queue_length", len(n.queue))
}

func formatPreviewAlert(result models.PreviewResult, reasons []string) string {
	var builder strings.Builder

	builder.WriteString("*Preview alert*\n\n")
	builder.WriteString(fmt.Sprintf("*%s*\n", escapeMarkdown(result.HomeTeam+" vs "+result.AwayTeam)))
	if result.League != "" || result.MatchDateTime != "" {
		builder.WriteString(escapeMarkdown(strings.TrimSpace(result.League+" "+result.MatchDateTime)) + "\n")
	}
	if h := result.Handicap; h != nil {
		builder.WriteString(escapeMarkdown(fmt.Sprintf("AH %s, favorite: %s", h.Line, orDash(h.Favorite))) + "\n")
	}
	builder.WriteString("\n")
	for _, r := range reasons {
		builder.WriteString(escapeMarkdown("- "+r) + "\n")
	}
	return builder.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)
	return replacer.Replace(text)
}
