// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for dracoon-go. It supports a four-layer
// override chain (defaults -> config file -> environment -> CLI flags).
package config

// Config is the top-level configuration structure parsed from a TOML file.
// All keys are flat at the top level; the embedded structs only group them.
type Config struct {
	ServerConfig
	LoggingConfig
	NetworkConfig
}

// ServerConfig identifies the DRACOON instance and the OAuth app registered
// with it. The client secret may also come from DRACOON_GO_CLIENT_SECRET so
// it need not be written to disk.
type ServerConfig struct {
	BaseURL      string `toml:"base_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	Scope        string `toml:"scope"`
}

// LoggingConfig controls log output: level and format.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// NetworkConfig controls HTTP client behavior: timeouts and user agent.
type NetworkConfig struct {
	ConnectTimeout string `toml:"connect_timeout"`
	DataTimeout    string `toml:"data_timeout"`
	UserAgent      string `toml:"user_agent"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings. Empty strings mean "not specified".
type CLIOverrides struct {
	ConfigPath string // --config flag (empty = use default)
	BaseURL    string // --base-url flag
	ClientID   string // --client-id flag
}

// Resolved is the effective configuration after all override layers, with
// the config file path it was loaded from.
type Resolved struct {
	Config
	Path string
}
