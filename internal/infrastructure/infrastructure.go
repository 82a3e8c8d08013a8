// Package infrastructure assembles the application's subsystems: logging,
// lifecycle coordination, database, blob storage, the model client, and
// the workflow runtime built on top of them.
package infrastructure

import (
	"log/slog"
	"os"

	"github.com/banerRana/docpipe/internal/checkpoints"
	"github.com/banerRana/docpipe/internal/classifier"
	"github.com/banerRana/docpipe/internal/config"
	"github.com/banerRana/docpipe/internal/extractor"
	"github.com/banerRana/docpipe/internal/genai"
	"github.com/banerRana/docpipe/internal/imaging"
	"github.com/banerRana/docpipe/internal/invoices"
	"github.com/banerRana/docpipe/internal/workflow"
	"github.com/banerRana/docpipe/pkg/database"
	"github.com/banerRana/docpipe/pkg/lifecycle"
	"github.com/banerRana/docpipe/pkg/storage"
)

// System holds the assembled subsystems for the application's lifetime.
type System struct {
	Config    *config.Config
	Logger    *slog.Logger
	Lifecycle *lifecycle.Coordinator
	Database  database.System
	Storage   storage.System
	Runtime   *workflow.Runtime
}

// New assembles the subsystems from configuration. Nothing connects until
// Start runs the lifecycle startup hooks.
func New(cfg *config.Config) (*System, error) {
	logger := NewLogger()

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	client := genai.New(&cfg.Model, logger)
	imager := imaging.New(logger)

	runtimeCfg := workflow.DefaultConfig()
	runtimeCfg.ConfidenceThreshold = cfg.Pipeline.ConfidenceThreshold
	runtimeCfg.TargetClassification = cfg.Pipeline.TargetClassification
	runtimeCfg.FilePattern = cfg.Pipeline.FilePattern
	runtimeCfg.MaxConcurrency = cfg.Pipeline.MaxConcurrency

	runtime := &workflow.Runtime{
		Storage:     store,
		Classifier:  classifier.New(client, imager, logger),
		Extractor:   invoices.NewExtractor(extractor.New(client, imager, logger)),
		Checkpoints: checkpoints.NewRepository(db.Pool()),
		Logger:      logger.With("system", "workflow"),
		Config:      runtimeCfg,
	}

	return &System{
		Config:    cfg,
		Logger:    logger,
		Lifecycle: lifecycle.New(),
		Database:  db,
		Storage:   store,
		Runtime:   runtime,
	}, nil
}

// Start registers subsystem lifecycle hooks and waits for startup to
// complete.
func (s *System) Start() error {
	if err := s.Database.Start(s.Lifecycle); err != nil {
		return err
	}

	s.Lifecycle.WaitForStartup()
	s.Logger.Info("infrastructure started")
	return nil
}

// NewLogger creates the application's structured logger, writing
// text-formatted records to stderr.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
