package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"critique/internal/config"
	"critique/internal/logging"
	"critique/internal/pipeline"
	"critique/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	store       *store.Store
	models      *pipeline.Models
	modelCloser io.Closer
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// log returns the configured logger, falling back to a console logger on
// stderr when the log file cannot be opened.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: "info", Format: "console"})
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) openStore() (*store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c.store = st
	return st, nil
}

func (c *commandContext) loadModels(ctx context.Context) (*pipeline.Models, error) {
	if c.models != nil {
		return c.models, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	models, closer, err := pipeline.FromConfig(ctx, cfg, c.log())
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	c.models = models
	c.modelCloser = closer
	return models, nil
}

func (c *commandContext) close() {
	if c.modelCloser != nil {
		_ = c.modelCloser.Close()
		c.modelCloser = nil
	}
	if c.store != nil {
		_ = c.store.Close()
		c.store = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
