package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/javajack/xlmacro/internal/config"
	"github.com/javajack/xlmacro/internal/logging"
	"github.com/javajack/xlmacro/internal/wordpress"
)

type globalFlags struct {
	config    string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *globalFlags
	runID string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags, runID: uuid.NewString()}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// logger builds the invocation logger. Flags override the [logging] section.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	section := cfg.Logging
	if c.flags.logLevel != "" {
		section.Level = c.flags.logLevel
	}
	if c.flags.logFormat != "" {
		section.Format = c.flags.logFormat
	}
	logger, err := logging.NewFromConfig(section, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logger = logger.With(logging.FieldRunID, c.runID)
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}
	return logger, nil
}

func (c *commandContext) wordpressClient() (*wordpress.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return wordpress.New(wordpress.Config{
		SiteURL:     cfg.WordPress.SiteURL,
		Username:    cfg.WordPress.Username,
		AppPassword: cfg.WordPress.AppPassword,
		Timeout:     cfg.WordPress.Timeout(),
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
