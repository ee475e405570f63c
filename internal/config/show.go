package config

import (
	"fmt"
	"io"
)

// redacted replaces the client secret in rendered output.
const redacted = "********"

// RenderEffective writes the resolved configuration as a human-readable
// annotated summary to w. This powers the "config show" command. The
// client secret is never printed.
func RenderEffective(r *Resolved, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("# Effective configuration (file: %s)\n\n", r.Path)

	renderServerSection(ew, &r.ServerConfig)
	renderLoggingSection(ew, &r.LoggingConfig)
	renderNetworkSection(ew, &r.NetworkConfig)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, so callers can chain
// printf calls without checking each one individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func renderServerSection(ew *errWriter, s *ServerConfig) {
	ew.printf("[server]\n")
	ew.printf("  base_url       = %q\n", s.BaseURL)
	ew.printf("  client_id      = %q\n", s.ClientID)

	if s.ClientSecret != "" {
		ew.printf("  client_secret  = %q\n", redacted)
	}

	if s.RedirectURI != "" {
		ew.printf("  redirect_uri   = %q\n", s.RedirectURI)
	}

	ew.printf("  scope          = %q\n\n", s.Scope)
}

func renderLoggingSection(ew *errWriter, l *LoggingConfig) {
	ew.printf("[logging]\n")
	ew.printf("  log_level      = %q\n", l.LogLevel)
	ew.printf("  log_format     = %q\n\n", l.LogFormat)
}

func renderNetworkSection(ew *errWriter, n *NetworkConfig) {
	ew.printf("[network]\n")
	ew.printf("  connect_timeout = %q\n", n.ConnectTimeout)
	ew.printf("  data_timeout    = %q\n", n.DataTimeout)

	if n.UserAgent != "" {
		ew.printf("  user_agent      = %q\n", n.UserAgent)
	}
}
