package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saranya/tutorquest/internal/app"
	"github.com/saranya/tutorquest/internal/config"
	"github.com/saranya/tutorquest/internal/gateway"
	"github.com/saranya/tutorquest/internal/logger"
	"github.com/saranya/tutorquest/internal/perks"
	"github.com/saranya/tutorquest/internal/remote"
	"github.com/saranya/tutorquest/internal/reward"
	"github.com/saranya/tutorquest/internal/scoring"
	"github.com/saranya/tutorquest/internal/store"
)

// runApp loads configuration, opens the store, wires the remote clients
// and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dataDir, err := store.DataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	cfg, err := config.Load(dataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		log = zap.NewNop()
	}
	defer func() { _ = log.Sync() }()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	stateRepo := st.GameStates()
	state, err := stateRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load game state: %w", err)
	}

	ledger := reward.NewLedger(state, stateRepo, log)
	ledger.RolloverDaily(time.Now())

	client := remote.NewClient(remote.Config{
		ScoringURL:    cfg.Services.ScoringURL,
		GenerationURL: cfg.Services.GenerationURL,
		Timeout:       cfg.Services.Timeout,
	})

	retryCfg := remote.RetryConfig{
		MaxAttempts: cfg.Retry.MaxAttempts,
		InitialWait: cfg.Retry.InitialWait,
		MaxWait:     cfg.Retry.MaxWait,
		Multiplier:  remote.DefaultRetryConfig().Multiplier,
	}
	requestLog := st.RequestEvents()

	scorer := remote.WithScoreLogging(
		remote.WithScoreRetry(client, retryCfg), requestLog, log)
	generator := remote.WithGenerateLogging(
		remote.WithGenerateRetry(client, retryCfg), requestLog, log)

	opts := app.Options{
		Gateway: gateway.New(generator, log),
		Scorer:  scorer,
		Ledger:  ledger,
		Shop:    perks.NewShop(ledger, log),
		Chapter: gateway.ChapterRequest{
			StudentID:      cfg.Student.ID,
			SubjectID:      cfg.Student.SubjectID,
			GradeBand:      cfg.Student.GradeBand,
			ChapterID:      cfg.Chapter.ID,
			ChapterSummary: cfg.Chapter.Summary,
			NumQuestions:   cfg.Quiz.NumQuestions,
		},
		Meta: scoring.Context{
			StudentID: cfg.Student.ID,
			SubjectID: cfg.Student.SubjectID,
			ChapterID: cfg.Chapter.ID,
		},
		Log: log,
	}

	return app.Run(opts)
}
