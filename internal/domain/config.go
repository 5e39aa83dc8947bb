package domain

import "time"

// Config represents the application configuration
type Config struct {
	API          APIConfig          `mapstructure:"api"`
	Output       OutputConfig       `mapstructure:"output"`
	Defaults     DefaultsConfig     `mapstructure:"defaults"`
	Relay        RelayConfig        `mapstructure:"relay"`
	History      HistoryConfig      `mapstructure:"history"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// APIConfig points at the collaborator download service. BaseURL is the one
// required piece of environment configuration.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OutputConfig controls where saved files land
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// DefaultsConfig carries the form defaults applied when a flag is not given
type DefaultsConfig struct {
	Provider string  `mapstructure:"provider"`
	Format   string  `mapstructure:"format"`
	Quality  string  `mapstructure:"quality"`
	EQPreset string  `mapstructure:"eq_preset"`
	Volume   float64 `mapstructure:"volume"`
}

// RelayConfig configures the local auth handshake surface
type RelayConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// HistoryConfig configures transfer history persistence
type HistoryConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// AuthConfig configures credential storage
type AuthConfig struct {
	CookieFile string `mapstructure:"cookie_file"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sound   bool   `mapstructure:"sound"`
	Method  string `mapstructure:"method"` // osascript, notify-send, etc.
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "",
			Timeout: 300 * time.Second,
		},
		Output: OutputConfig{
			Dir: "$HOME/Downloads/trackpull",
		},
		Defaults: DefaultsConfig{
			Provider: string(ProviderAudio),
			Format:   string(FormatMP3),
			Quality:  "",
			EQPreset: string(EQNone),
			Volume:   1.0,
		},
		Relay: RelayConfig{
			Host: "localhost",
			Port: 8089,
		},
		History: HistoryConfig{
			DatabasePath: "$HOME/.trackpull/history.db",
		},
		Auth: AuthConfig{
			CookieFile: "$HOME/.trackpull/cookies.txt",
		},
		Notification: NotificationConfig{
			Enabled: true,
			Sound:   false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
