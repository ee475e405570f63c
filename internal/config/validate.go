package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

// Validation range constants.
const (
	minConnectTimeout = 1 * time.Second
	minDataTimeout    = 5 * time.Second
)

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// see a complete report and can fix all issues in one pass. Empty server
// fields are allowed here; they may still arrive from env or flags.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateServer(&cfg.ServerConfig)...)
	errs = append(errs, validateLogging(&cfg.LoggingConfig)...)
	errs = append(errs, validateNetwork(&cfg.NetworkConfig)...)

	return errors.Join(errs...)
}

// ValidateResolved checks the fully resolved configuration. Unlike
// Validate(), which checks raw config file values, this runs after the
// override chain has been applied and requires the fields every
// command needs.
func ValidateResolved(r *Resolved) error {
	var errs []error

	if r.BaseURL == "" {
		errs = append(errs, fmt.Errorf("base_url: required (set it in the config file, %s, or --base-url)", EnvBaseURL))
	}

	if r.ClientID == "" {
		errs = append(errs, fmt.Errorf("client_id: required (set it in the config file, %s, or --client-id)", EnvClientID))
	}

	errs = append(errs, validateServer(&r.ServerConfig)...)

	return errors.Join(errs...)
}

func validateServer(s *ServerConfig) []error {
	var errs []error

	if s.BaseURL != "" {
		errs = append(errs, validateServiceURL("base_url", s.BaseURL)...)
	}

	if s.RedirectURI != "" {
		errs = append(errs, validateServiceURL("redirect_uri", s.RedirectURI)...)
	}

	if s.Scope == "" {
		errs = append(errs, errors.New("scope: must not be empty"))
	}

	return errs
}

// validateServiceURL requires an absolute https URL. Plain http is accepted
// only for loopback hosts, which covers local test servers and redirect
// listeners.
func validateServiceURL(field, raw string) []error {
	u, err := url.Parse(raw)
	if err != nil {
		return []error{fmt.Errorf("%s: invalid URL %q: %w", field, raw, err)}
	}

	if u.Host == "" {
		return []error{fmt.Errorf("%s: must be an absolute URL, got %q", field, raw)}
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		if isLoopback(u.Hostname()) {
			return nil
		}

		return []error{fmt.Errorf("%s: http is only allowed for localhost, got %q", field, raw)}
	default:
		return []error{fmt.Errorf("%s: scheme must be https, got %q", field, u.Scheme)}
	}
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}

	ip := net.ParseIP(host)

	return ip != nil && ip.IsLoopback()
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	errs = append(errs, validateLogLevel(l.LogLevel)...)
	errs = append(errs, validateLogFormat(l.LogFormat)...)

	return errs
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validateLogLevel(level string) []error {
	if !validLogLevels[level] {
		return []error{fmt.Errorf("log_level: must be one of debug, info, warn, error; got %q", level)}
	}

	return nil
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

func validateLogFormat(format string) []error {
	if !validLogFormats[format] {
		return []error{fmt.Errorf("log_format: must be one of auto, text, json; got %q", format)}
	}

	return nil
}

func validateNetwork(n *NetworkConfig) []error {
	var errs []error

	errs = append(errs, validateDurationMin("connect_timeout", n.ConnectTimeout, minConnectTimeout)...)
	errs = append(errs, validateDurationMin("data_timeout", n.DataTimeout, minDataTimeout)...)

	return errs
}

// validateDuration checks that a duration string is valid and meets a minimum.
func validateDuration(field, value string, minimum time.Duration) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, value, err)
	}

	if d < minimum {
		return fmt.Errorf("%s: must be >= %s, got %s", field, minimum, d)
	}

	return nil
}

func validateDurationMin(field, value string, minimum time.Duration) []error {
	if err := validateDuration(field, value, minimum); err != nil {
		return []error{err}
	}

	return nil
}

// Durations parses the validated network timeouts. Call only on a
// validated config; unparseable values yield zero.
func (n NetworkConfig) Durations() (connect, data time.Duration) {
	connect, _ = time.ParseDuration(n.ConnectTimeout)
	data, _ = time.ParseDuration(n.DataTimeout)

	return connect, data
}
