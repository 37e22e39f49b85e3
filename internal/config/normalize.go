package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizeWordPress()
	c.normalizeReconcile()
	c.normalizeLogging()
}

func (c *Config) normalizeWordPress() {
	if value, ok := os.LookupEnv(EnvSiteURL); ok && strings.TrimSpace(value) != "" {
		c.WordPress.SiteURL = value
	}
	if value, ok := os.LookupEnv(EnvUsername); ok {
		c.WordPress.Username = value
	}
	if value, ok := os.LookupEnv(EnvAppPassword); ok {
		c.WordPress.AppPassword = value
	}

	c.WordPress.SiteURL = strings.TrimRight(strings.TrimSpace(c.WordPress.SiteURL), "/")
	c.WordPress.Username = strings.TrimSpace(c.WordPress.Username)
	// Application passwords are shown with spaces; WordPress accepts them either way.
	c.WordPress.AppPassword = strings.TrimSpace(c.WordPress.AppPassword)
	if c.WordPress.TimeoutSeconds == 0 {
		c.WordPress.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeReconcile() {
	c.Reconcile.CollisionPolicy = strings.ToLower(strings.TrimSpace(c.Reconcile.CollisionPolicy))
	if c.Reconcile.CollisionPolicy == "" {
		c.Reconcile.CollisionPolicy = defaultCollisionPolicy
	}
	c.Reconcile.PartialColor = normalizeColor(c.Reconcile.PartialColor, defaultPartialColor)
	c.Reconcile.UnresolvedColor = normalizeColor(c.Reconcile.UnresolvedColor, defaultUnresolvedColor)
}

func normalizeColor(value, fallback string) string {
	value = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(value), "#"))
	if value == "" {
		return fallback
	}
	return value
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console", "text":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
}
