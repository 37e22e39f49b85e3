// Package config loads, normalizes, and validates xlmacro configuration.
//
// It supplies defaults, reads TOML files, and honours environment overrides
// for the WordPress credentials so secrets can stay out of the file. Obtain
// settings through Load so downstream code receives trimmed URLs, canonical
// colours and log formats, and clear validation errors.
package config
