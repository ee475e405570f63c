// Package testutil provides shared environment helpers for E2E tests that
// run against a live DRACOON instance. It depends only on stdlib.
package testutil

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables read by the E2E suite.
const (
	EnvTestBaseURL      = "DRACOON_TEST_BASE_URL"
	EnvTestClientID     = "DRACOON_TEST_CLIENT_ID"
	EnvTestClientSecret = "DRACOON_TEST_CLIENT_SECRET"
	EnvTestUsername     = "DRACOON_TEST_USERNAME"
	EnvTestPassword     = "DRACOON_TEST_PASSWORD"
	EnvAllowedHosts     = "DRACOON_ALLOWED_TEST_HOSTS"
)

// LoadDotEnv reads KEY=VALUE pairs from a .env file at the given path.
// Missing file is not an error (CI sets env vars directly).
// Existing env vars take precedence over .env values.
func LoadDotEnv(envPath string) {
	f, err := os.Open(envPath)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), "\"'")

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// RequireEnv returns the value of each named variable. It exits the process
// listing every missing one if any is unset.
func RequireEnv(keys ...string) map[string]string {
	vals := make(map[string]string, len(keys))

	var missing []string

	for _, k := range keys {
		v := os.Getenv(k)
		if v == "" {
			missing = append(missing, k)
		}

		vals[k] = v
	}

	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "FATAL: missing E2E environment: %s\n", strings.Join(missing, ", "))
		fmt.Fprintln(os.Stderr, "Set them in .env or as environment variables.")
		os.Exit(1)
	}

	return vals
}

// ValidateAllowlist exits the process unless the host of baseURL is listed
// in DRACOON_ALLOWED_TEST_HOSTS. Only instances marked as disposable may be
// logged into by the suite.
func ValidateAllowlist(baseURL string) {
	allowlist := os.Getenv(EnvAllowedHosts)
	if allowlist == "" {
		fmt.Fprintf(os.Stderr, "FATAL: %s not set\n", EnvAllowedHosts)
		fmt.Fprintf(os.Stderr, "Example: %s=dracoon-test.example.com\n", EnvAllowedHosts)
		os.Exit(1)
	}

	if !HostAllowed(baseURL, allowlist) {
		fmt.Fprintf(os.Stderr, "FATAL: %s=%q is not in %s=%q\n", EnvTestBaseURL, baseURL, EnvAllowedHosts, allowlist)
		os.Exit(1)
	}
}

// HostAllowed reports whether the host of baseURL appears in the
// comma-separated allowlist. Comparison ignores case and port.
func HostAllowed(baseURL, allowlist string) bool {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return false
	}

	for _, h := range strings.Split(allowlist, ",") {
		if strings.EqualFold(strings.TrimSpace(h), u.Hostname()) {
			return true
		}
	}

	return false
}

// FindModuleRoot walks up from the current directory to find go.mod.
// Returns the fallback if the root is not found.
func FindModuleRoot(fallback string) string {
	dir, err := os.Getwd()
	if err != nil {
		return fallback
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return fallback
		}

		dir = parent
	}
}
