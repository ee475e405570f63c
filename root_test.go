package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/dracoon-go/internal/config"
)

// Global flag reset pattern: newRootCmd() binds flags via StringVar/BoolVar,
// which reset the global flag variables to their zero values. Tests must either:
//   - Set globals AFTER newRootCmd() returns (direct function tests), or
//   - Use cmd.SetArgs() + cmd.Execute() to let Cobra parse flags.

// executeCmd runs the root command with args and stdin, returning stdout.
// Environment overrides are cleared so the host environment cannot leak in.
func executeCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	for _, key := range []string{
		config.EnvConfig, config.EnvBaseURL, config.EnvClientID, config.EnvClientSecret, envPassword,
	} {
		t.Setenv(key, "")
	}

	t.Cleanup(func() { resolvedCfg = nil })

	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--quiet", "--config", filepath.Join(t.TempDir(), "none.toml")}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func saveLogFlags(t *testing.T) {
	t.Helper()

	oldVerbose, oldQuiet, oldCfg := flagVerbose, flagQuiet, resolvedCfg

	t.Cleanup(func() {
		flagVerbose, flagQuiet, resolvedCfg = oldVerbose, oldQuiet, oldCfg
	})
}

func TestCLILevel(t *testing.T) {
	saveLogFlags(t)

	flagVerbose, flagQuiet = false, false
	assert.Equal(t, slog.LevelWarn, cliLevel(slog.LevelWarn))

	flagVerbose = true
	assert.Equal(t, slog.LevelDebug, cliLevel(slog.LevelWarn))

	flagQuiet = true
	assert.Equal(t, slog.LevelError, cliLevel(slog.LevelWarn), "--quiet wins over --verbose")
}

func TestBuildLogger_ConfigLevel(t *testing.T) {
	saveLogFlags(t)

	flagVerbose, flagQuiet = false, false
	resolvedCfg = &config.Resolved{Config: *config.DefaultConfig()}
	resolvedCfg.LogLevel = "warn"

	logger := buildLogger()
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
}

func TestBuildLogger_NoConfig(t *testing.T) {
	saveLogFlags(t)

	flagVerbose, flagQuiet = false, false
	resolvedCfg = nil

	logger := buildLogger()
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer

	newLogger(&buf, slog.LevelInfo, "json").Info("hello", slog.String("k", "v"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])

	buf.Reset()
	newLogger(&buf, slog.LevelInfo, "text").Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	// A buffer is not a terminal, so auto means JSON.
	buf.Reset()
	newLogger(&buf, slog.LevelInfo, "auto").Info("hello")
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}

func TestNewAuthClient_FromConfig(t *testing.T) {
	cfg := &config.Resolved{Config: *config.DefaultConfig()}
	cfg.BaseURL = "https://dracoon.example.com"
	cfg.ClientID = "cli-client"

	client := newAuthClient(cfg, quietLogger())
	assert.Contains(t, client.CodeURL("all", "s"), "client_id=cli-client")
	assert.False(t, client.Connected())
}

func TestRootCmd_MissingRequiredConfig(t *testing.T) {
	_, err := executeCmd(t, "", "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
	assert.Contains(t, err.Error(), "base_url: required")
}

func TestConfigShow(t *testing.T) {
	out, err := executeCmd(t, "",
		"--base-url", "https://dracoon.example.com", "--client-id", "show-client", "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "[server]")
	assert.Contains(t, out, `"https://dracoon.example.com"`)
	assert.Contains(t, out, `"show-client"`)
}

func TestConfigShow_SecretFromEnvRedacted(t *testing.T) {
	cmd := newRootCmd()
	t.Cleanup(func() { resolvedCfg = nil })

	t.Setenv(config.EnvConfig, filepath.Join(t.TempDir(), "none.toml"))
	t.Setenv(config.EnvBaseURL, "https://dracoon.example.com")
	t.Setenv(config.EnvClientID, "env-client")
	t.Setenv(config.EnvClientSecret, "env-secret")

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--quiet", "config", "show"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "env-client")
	assert.NotContains(t, out.String(), "env-secret")
}
