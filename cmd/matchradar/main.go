package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rmfonseca/matchradar/adapters/apifootball"
	"github.com/rmfonseca/matchradar/internal/cache"
	"github.com/rmfonseca/matchradar/internal/config"
	"github.com/rmfonseca/matchradar/internal/detect"
	"github.com/rmfonseca/matchradar/internal/facade"
	"github.com/rmfonseca/matchradar/internal/ledger"
	"github.com/rmfonseca/matchradar/internal/notify"
	"github.com/rmfonseca/matchradar/internal/quota"
	"github.com/rmfonseca/matchradar/internal/sched"
	"github.com/rmfonseca/matchradar/internal/scorefeed"
	"github.com/rmfonseca/matchradar/internal/web"
	"github.com/rmfonseca/matchradar/leagues"
	"github.com/rmfonseca/matchradar/pkg/contracts"
	"github.com/rmfonseca/matchradar/pkg/models"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("✗ configuration error: %v\n", err)
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Quota governor and cache sit in front of every provider call
	gov := quota.NewGovernor(quota.PeriodKind(cfg.QuotaPeriod), cfg.APIDailyLimit, log)
	dataCache := cache.New()

	provider := apifootball.NewClient(cfg.APIKey, gov, log)
	data := facade.New(provider, dataCache, gov, log)

	fmt.Println("✓ Initialized api-football provider")

	tbl, err := leagues.Load(cfg.RefDataPath)
	if err != nil {
		fmt.Printf("✗ failed to load reference data: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Loaded reference data (%d regression leagues, %d form leagues, %d watchlist teams)\n",
		len(tbl.Regression), len(tbl.Form), len(tbl.Watchlist))

	// Redis backs the notification ledger and the alert stream when configured
	var redisClient *redis.Client
	var led contracts.NotificationLedger = ledger.NewMemory()
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			fmt.Printf("✗ failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		led = ledger.NewRedis(redisClient, log)
		fmt.Println("✓ Connected to Redis")
	} else {
		fmt.Println("✓ Using in-memory notification ledger")
	}

	// Postgres alert archive is optional
	var writer *scorefeed.Writer
	var sink contracts.AlertSink
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			fmt.Printf("✗ failed to open Postgres: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			fmt.Printf("✗ failed to ping Postgres: %v\n", err)
			os.Exit(1)
		}

		writer = scorefeed.NewWriter(db, redisClient, log)
		writer.Start(ctx)
		sink = writer
		fmt.Println("✓ Connected to Postgres alert archive")
	}

	notifier := notify.NewTelegram(cfg.TelegramToken, cfg.DryRun, log)
	if cfg.DryRun {
		fmt.Println("✓ Telegram in dry-run mode, no messages will be sent")
	} else {
		fmt.Println("✓ Initialized Telegram notifier")
	}

	loc, err := time.LoadLocation(cfg.ActiveTZ)
	if err != nil {
		fmt.Printf("✗ invalid ACTIVE_TZ %q: %v\n", cfg.ActiveTZ, err)
		os.Exit(1)
	}

	registry := detect.NewRegistry()
	detectors := []contracts.Detector{
		detect.NewElite(data, tbl,
			detect.NewEmitter(led, notifier, sink, cfg.ChatIDElite, log),
			cfg.EliteThreshold, cfg.EliteEnabled, log),
		detect.NewRegression(data, tbl,
			detect.NewEmitter(led, notifier, sink, cfg.ChatIDRegression, log),
			cfg.RegressionMaxAgeDays,
			detect.ActiveWindow{StartHour: cfg.ActiveHoursStart, EndHour: cfg.ActiveHoursEnd, Location: loc},
			cfg.RegressionEnabled, log),
		detect.NewRollingForm(data, tbl,
			detect.NewEmitter(led, notifier, sink, cfg.ChatIDForm, log),
			cfg.FormEnabled, log),
	}
	for _, d := range detectors {
		if err := registry.Register(d); err != nil {
			fmt.Printf("✗ failed to register detector: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("✓ Registered %d detector(s)\n", registry.Count())

	hoursByName := map[string][]int{
		detect.DetectorElite:       cfg.EliteHours,
		detect.DetectorRegression:  cfg.RegressionHours,
		detect.DetectorRollingForm: cfg.FormHours,
	}

	scheduler := sched.New(log)
	for _, d := range registry.All() {
		if !d.Enabled() {
			fmt.Printf("  [%s] disabled\n", d.Name())
			continue
		}
		scheduler.Add(sched.Job{
			Name:  d.Name(),
			Hours: hoursByName[d.Name()],
			Run:   d.Execute,
		})
		fmt.Printf("  [%s] hours (UTC): %v\n", d.Name(), hoursByName[d.Name()])
	}

	scheduler.Add(sched.Job{
		Name:  "quota_report",
		Hours: cfg.QuotaReportHours,
		Run: func(ctx context.Context) models.RunSummary {
			return runQuotaReport(ctx, gov, notifier, cfg.ChatIDReports)
		},
	})
	fmt.Printf("  [quota_report] hours (UTC): %v\n", cfg.QuotaReportHours)

	scheduler.Start(ctx)
	fmt.Println("✓ Scheduler started")

	statusServer := web.NewServer(gov, dataCache, scheduler, log)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: statusServer.Router(),
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("✗ status server failed: %v\n", err)
		}
	}()
	fmt.Printf("✓ Status server listening on :%d\n", cfg.Port)
	fmt.Println()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	fmt.Println("\n✓ Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop()
	if writer != nil {
		writer.Stop()
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("✗ status server shutdown: %v\n", err)
	}

	fmt.Println("✓ matchradar stopped")
}

// runQuotaReport sends the periodic budget summary to the reports chat
func runQuotaReport(ctx context.Context, gov *quota.Governor, notifier *notify.Telegram, chatID int64) models.RunSummary {
	start := time.Now()
	sum := models.RunSummary{Detector: "quota_report", StartedAt: start}
	defer func() { sum.Duration = time.Since(start) }()

	remaining, limit, ok := gov.AccountFigures()
	text := notify.QuotaReportText(gov.Usage(), remaining, limit, ok)
	if notifier.Send(ctx, chatID, text) {
		sum.Alerted = 1
	} else {
		sum.Errors = 1
	}
	return sum
}
