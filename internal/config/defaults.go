package config

const (
	defaultSiteURL         = "https://yourwordpress.site"
	defaultTimeoutSeconds  = 30
	defaultCollisionPolicy = "last"
	defaultPartialColor    = "FFFFCC"
	defaultUnresolvedColor = "FFCCCC"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultConfigPath      = "~/.config/xlmacro/config.toml"
	projectConfigName      = "xlmacro.toml"
)

// Environment variables that override file values.
const (
	EnvSiteURL     = "XLMACRO_WP_SITE_URL"
	EnvUsername    = "XLMACRO_WP_USERNAME"
	EnvAppPassword = "XLMACRO_WP_APP_PASSWORD"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		WordPress: WordPress{
			SiteURL:        defaultSiteURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Reconcile: Reconcile{
			CollisionPolicy: defaultCollisionPolicy,
			PartialColor:    defaultPartialColor,
			UnresolvedColor: defaultUnresolvedColor,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
