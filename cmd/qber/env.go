package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"qber/internal/config"
	"qber/internal/editor"
	qerrors "qber/internal/errors"
	"qber/internal/logging"
	"qber/internal/output"
	"qber/internal/remote"
	"qber/internal/storage"
)

// env bundles everything a command needs: resolved config, logger, the
// editing session, and the offline cache.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	session *editor.Session
	cache   *storage.TocCache
	db      *storage.DB

	projectID       string
	questionnaireID string
}

// setupEnv resolves configuration (flags over config file), builds the API
// client and session, and opens the cache database.
func setupEnv() (*env, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	creds, err := config.LoadCredentials(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logger := logging.New(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  level,
	})

	endpoint := cfg.Endpoint
	if endpointFlag != "" {
		endpoint = endpointFlag
	}
	projectID := cfg.Defaults.ProjectID
	if projectFlag != "" {
		projectID = projectFlag
	}
	questionnaireID := cfg.Defaults.QuestionnaireID
	if questionnaireFlag != "" {
		questionnaireID = questionnaireFlag
	}
	if projectID == "" || questionnaireID == "" {
		return nil, fmt.Errorf("project and questionnaire must be set via flags or config defaults")
	}

	client := remote.NewClient(remote.Config{
		Endpoint:   endpoint,
		Token:      creds.Token,
		Timeout:    time.Duration(cfg.Remote.TimeoutMs) * time.Millisecond,
		MaxRetries: cfg.Remote.MaxRetries,
	}, logger)

	db, err := storage.Open(root, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	return &env{
		cfg:             cfg,
		logger:          logger,
		session:         editor.NewSession(client, logger, projectID, questionnaireID),
		cache:           storage.NewTocCache(db),
		db:              db,
		projectID:       projectID,
		questionnaireID: questionnaireID,
	}, nil
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
}

// loadSections populates the session, from the cache when --offline is set
// and from the API otherwise. Fresh fetches refresh the cache.
func (e *env) loadSections(ctx context.Context) error {
	if offlineFlag {
		records, ok, err := e.cache.Get(e.projectID, e.questionnaireID)
		if err != nil {
			return err
		}
		if !ok {
			return qerrors.New(qerrors.CacheStale, "no cached sections for this questionnaire", nil)
		}
		e.session.Load(records)
		return nil
	}

	if err := e.session.Refresh(ctx); err != nil {
		return err
	}
	ttl := time.Duration(e.cfg.Cache.TTLSeconds) * time.Second
	if err := e.cache.Set(e.projectID, e.questionnaireID, e.session.Records(), ttl); err != nil {
		e.logger.Warn("failed to update cache", "error", err)
	}
	return nil
}

// renderTree writes the current tree to stdout in the selected format.
func (e *env) renderTree() error {
	return output.Render(os.Stdout, e.session.Tree(), e.session.Selection(), output.Format(formatFlag))
}
