package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

var hexColorPattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWordPress(); err != nil {
		return err
	}
	if err := c.validateReconcile(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWordPress() error {
	if c.WordPress.SiteURL == "" {
		return fmt.Errorf("wordpress.site_url is required. Set %s or edit the config file (create with 'xlmacro config init')", EnvSiteURL)
	}
	u, err := url.Parse(c.WordPress.SiteURL)
	if err != nil {
		return fmt.Errorf("wordpress.site_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("wordpress.site_url must start with http:// or https://, got %q", c.WordPress.SiteURL)
	}
	if u.Host == "" {
		return fmt.Errorf("wordpress.site_url has no host: %q", c.WordPress.SiteURL)
	}
	if c.WordPress.TimeoutSeconds < 0 {
		return errors.New("wordpress.timeout_seconds must be positive")
	}
	return nil
}

// Warnings lists settings that are accepted but probably not what the user
// meant. A username without an app password (or the reverse) sends requests
// unauthenticated.
func (c *Config) Warnings() []string {
	var warnings []string
	if (c.WordPress.Username == "") != (c.WordPress.AppPassword == "") {
		warnings = append(warnings, fmt.Sprintf(
			"only one of wordpress.username and wordpress.app_password is set; requests are sent without authentication (set %s and %s together)",
			EnvUsername, EnvAppPassword))
	}
	return warnings
}

func (c *Config) validateReconcile() error {
	switch c.Reconcile.CollisionPolicy {
	case "last", "first":
	default:
		return fmt.Errorf("reconcile.collision_policy must be \"last\" or \"first\", got %q", c.Reconcile.CollisionPolicy)
	}
	if !hexColorPattern.MatchString(c.Reconcile.PartialColor) {
		return fmt.Errorf("reconcile.partial_color must be a 6-digit hex colour, got %q", c.Reconcile.PartialColor)
	}
	if !hexColorPattern.MatchString(c.Reconcile.UnresolvedColor) {
		return fmt.Errorf("reconcile.unresolved_color must be a 6-digit hex colour, got %q", c.Reconcile.UnresolvedColor)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
