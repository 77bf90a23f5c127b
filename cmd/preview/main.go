package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Vodeneev/betpreview/internal/pkg/config"
	"github.com/Vodeneev/betpreview/internal/pkg/health"
	"github.com/Vodeneev/betpreview/internal/pkg/health/handlers"
	"github.com/Vodeneev/betpreview/internal/pkg/logging"
	"github.com/Vodeneev/betpreview/internal/pkg/metrics"
	"github.com/Vodeneev/betpreview/internal/pkg/notify"
	"github.com/Vodeneev/betpreview/internal/pkg/performance"
	"github.com/Vodeneev/betpreview/internal/pkg/storage"
	"github.com/Vodeneev/betpreview/internal/preview"
	"github.com/Vodeneev/betpreview/internal/preview/cache"
	"github.com/Vodeneev/betpreview/internal/preview/document"
	"github.com/Vodeneev/betpreview/internal/preview/source"
)

const serviceName = "preview"

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var store bool
	var serve bool
	var pretty bool

	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Path to config file (can be set via CONFIG_PATH env var)")
	flag.BoolVar(&store, "store", false, "Save every preview to PostgreSQL")
	flag.BoolVar(&serve, "serve", false, "Keep the health server running after the previews until interrupted")
	flag.BoolVar(&pretty, "pretty", true, "Indent JSON output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <match-id>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 && !serve {
		flag.Usage()
		return 2
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Printf("Failed to load config: %v", err)
			return 1
		}
		cfg = loaded
	}
	applyEnv(cfg)

	_, logCloser, err := logging.SetupLogger(cfg.Logging, serviceName)
	if err != nil {
		log.Printf("Failed to setup logging: %v", err)
		return 1
	}
	defer logCloser.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, stopping preview...")
		cancel()
	}()

	fetcher, closeFetcher := newFetcher(cfg.Preview)
	defer closeFetcher()

	checks := map[string]handlers.CheckFunc{}
	resultCache := cache.Default()
	if cfg.Cache.Backend == config.CacheBackendRedis {
		client, err := cache.ConnectRedis(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			return 1
		}
		redisStore := cache.NewRedisStore(client)
		defer redisStore.Close()
		resultCache = cache.New(redisStore)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		slog.Info("Using redis result cache", "addr", cfg.Cache.RedisAddr)
	}

	var previewStorage storage.PreviewStorage
	if store {
		pg, err := storage.NewPostgresPreviewStorage(&cfg.Postgres)
		if err != nil {
			slog.Error("Failed to initialize PostgreSQL storage", "error", err)
			return 1
		}
		defer func() {
			if err := pg.Close(); err != nil {
				slog.Error("Error closing PostgreSQL storage", "error", err)
			}
		}()
		previewStorage = pg
	}

	var notifier *notify.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		notifier, err = notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MinInterval)
		if err != nil {
			slog.Error("Telegram notifier disabled", "error", err)
		}
		defer notifier.Stop()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tracker := performance.GetTracker()

	if cfg.Health.Port > 0 {
		addr, err := health.AddrFor(cfg.Health.Port)
		if err != nil {
			slog.Error("Invalid health port", "error", err)
			return 1
		}
		mux := health.NewMux(health.Options{Gatherer: reg, Tracker: tracker, Checks: checks})
		if err := health.Run(ctx, addr, serviceName, mux, cfg.Health.ReadHeaderTimeout); err != nil {
			slog.Error("Failed to start health server", "error", err)
			return 1
		}
	}

	engine := preview.NewEngine(fetcher, document.NewHTMLParser(), preview.Options{
		Variant:          cfg.Preview.Variant,
		FetchTimeout:     cfg.Preview.FetchTimeout,
		SecondaryTimeout: cfg.Preview.SecondaryTimeout,
		StatsTimeout:     cfg.Preview.StatsTimeout,
		Workers:          cfg.Preview.Workers,
		TTL:              cfg.Preview.CacheTTL,
		Cache:            resultCache,
		Metrics:          metrics.New(reg),
		Tracker:          tracker,
	})

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}

	failed := false
	for _, matchID := range flag.Args() {
		if ctx.Err() != nil {
			break
		}
		result := engine.Preview(ctx, matchID)
		if result.Failed() {
			failed = true
			slog.Error("Preview failed", "match_id", matchID, "classification", result.Classification, "error", result.Error)
		}
		if err := enc.Encode(result); err != nil {
			slog.Error("Failed to write preview", "match_id", matchID, "error", err)
		}

		if previewStorage != nil && !result.Failed() {
			if _, err := recordPreview(ctx, previewStorage, cfg.Preview.Variant, matchID, result, time.Now().UTC()); err != nil {
				slog.Error("Failed to store preview", "match_id", matchID, "error", err)
			}
		}
		if err := notifier.NotifyPreview(ctx, result); err != nil {
			slog.Warn("Failed to queue preview alert", "match_id", matchID, "error", err)
		}
	}

	if previewStorage != nil {
		if err := pruneSnapshots(ctx, previewStorage, cfg.Postgres.Retention, time.Now().UTC()); err != nil {
			slog.Error("Failed to prune preview snapshots", "error", err)
		}
	}

	tracker.PrintSummary()

	if serve {
		slog.Info("Previews done, serving until interrupted")
		<-ctx.Done()
	}
	if failed {
		return 1
	}
	return 0
}

// applyEnv lets the environment override secrets and endpoints of cfg.
func applyEnv(cfg *config.Config) {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.BotToken = token
	}
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if chatID, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.Telegram.ChatID = chatID
		} else {
			log.Printf("Ignoring invalid TELEGRAM_CHAT_ID %q: %v", chatIDStr, err)
		}
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Cache.Backend = config.CacheBackendRedis
		cfg.Cache.RedisAddr = addr
	}
}

func newFetcher(cfg config.PreviewConfig) (preview.Fetcher, func()) {
	if cfg.FetchMode == config.FetchModeBrowser {
		browser := source.NewBrowserClient(cfg.BaseURL, cfg.UserAgent, cfg.BrowserSettle)
		slog.Info("Using headless browser fetcher", "base_url", cfg.BaseURL)
		return browser, browser.Close
	}
	client := source.NewClient(source.ClientOptions{
		BaseURL:     cfg.BaseURL,
		UserAgent:   cfg.UserAgent,
		Timeout:     max(cfg.FetchTimeout, cfg.SecondaryTimeout, cfg.StatsTimeout),
		Retries:     cfg.Retries,
		Proxies:     cfg.ProxyList,
		InsecureTLS: cfg.InsecureTLS,
	})
	slog.Info("Using HTTP fetcher", "base_url", cfg.BaseURL, "proxies", len(cfg.ProxyList))
	return client, func() {}
}
