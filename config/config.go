// Package config loads the client settings from <profileDir>/config.toml.
//
// Values are resolved in order: built-in defaults, the TOML file, a .env
// file in the working directory, then AIDESK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// FileName is the config file inside the profile directory.
const FileName = "config.toml"

// Config holds persistent client settings.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	UI       UIConfig       `toml:"ui"`
	Chat     ChatConfig     `toml:"chat"`
	Calendar CalendarConfig `toml:"calendar"`
	Cache    CacheConfig    `toml:"cache"`
}

// ServerConfig addresses the backend.
type ServerConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
	// RateLimit caps requests per second; 0 disables limiting.
	RateLimit float64 `toml:"rate_limit"`
}

// UIConfig holds appearance settings.
type UIConfig struct {
	Theme   string `toml:"theme"`
	Sidebar bool   `toml:"sidebar"`
}

// ChatConfig tunes the message list.
type ChatConfig struct {
	// Follow is "at-end" (follow new rows only while parked at the bottom)
	// or "always".
	Follow         string `toml:"follow"`
	FallbackHeight int    `toml:"fallback_height"`
	Overscan       int    `toml:"overscan"`
	RowPadding     int    `toml:"row_padding"`
	// Timezone is sent with chat requests. Empty uses the local zone.
	Timezone string `toml:"timezone"`
}

// CalendarConfig tunes the agenda and the Google Calendar handshake.
type CalendarConfig struct {
	AgendaDays       int      `toml:"agenda_days"`
	HandshakeTimeout Duration `toml:"handshake_timeout"`
}

// CacheConfig controls the local conversation cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// Path overrides <profileDir>/cache.db.
	Path string `toml:"path"`
}

// Duration is a time.Duration stored as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:       "http://localhost:8000",
			Timeout:   Duration{300 * time.Second},
			RateLimit: 10,
		},
		UI: UIConfig{
			Theme:   "dark",
			Sidebar: true,
		},
		Chat: ChatConfig{
			Follow:         "at-end",
			FallbackHeight: 6,
			Overscan:       4,
			RowPadding:     1,
		},
		Calendar: CalendarConfig{
			AgendaDays:       3,
			HandshakeTimeout: Duration{3 * time.Minute},
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// Path returns the config file path inside profileDir.
func Path(profileDir string) string {
	return filepath.Join(profileDir, FileName)
}

// Load reads <profileDir>/config.toml over the defaults, then applies
// .env and environment overrides and validates the result. A missing file
// yields the defaults.
func Load(profileDir string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, Path(profileDir)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	LoadDotEnv()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes path into cfg. Keys absent from the file keep the values
// already in cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("decode %s: unknown keys: %s", filepath.Base(path), strings.Join(keys, ", "))
	}
	return nil
}

// LoadDotEnv loads .env from the working directory into the process
// environment. Variables already set win; a missing file is ignored.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Save writes cfg to <profileDir>/config.toml, creating the directory.
func Save(profileDir string, cfg *Config) error {
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	f, err := os.OpenFile(Path(profileDir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# aidesk configuration")
	fmt.Fprintln(f, "")
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies AIDESK_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("AIDESK_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("AIDESK_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("AIDESK_TZ"); v != "" {
		c.Chat.Timezone = v
	}
	if v := os.Getenv("AIDESK_FOLLOW"); v != "" {
		c.Chat.Follow = v
	}
	if v := os.Getenv("AIDESK_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
}

// Debug reports whether AIDESK_DEBUG asks for a debug log.
func Debug() bool {
	b, _ := strconv.ParseBool(os.Getenv("AIDESK_DEBUG"))
	return b
}

// EnvToken returns the token supplied through AIDESK_TOKEN, if any.
func EnvToken() string {
	return strings.TrimSpace(os.Getenv("AIDESK_TOKEN"))
}

// Location resolves Chat.Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Chat.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Chat.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// TimezoneName is the IANA name sent to the backend.
func (c *Config) TimezoneName() string {
	if c.Chat.Timezone != "" {
		return c.Chat.Timezone
	}
	if name := time.Local.String(); name != "Local" {
		return name
	}
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	return "UTC"
}

// CachePath resolves the sqlite cache location.
func (c *Config) CachePath(profileDir string) string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return filepath.Join(profileDir, "cache.db")
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid setting.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Server.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{"server.url", fmt.Sprintf("invalid URL %q", c.Server.URL)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{"server.url", "scheme must be http or https"})
	}
	if c.Server.Timeout.Duration <= 0 {
		errs = append(errs, ValidationError{"server.timeout", "must be positive"})
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, ValidationError{"server.rate_limit", "must not be negative"})
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		errs = append(errs, ValidationError{"ui.theme", fmt.Sprintf("unknown theme %q, must be dark or light", c.UI.Theme)})
	}
	if c.Chat.Follow != "at-end" && c.Chat.Follow != "always" {
		errs = append(errs, ValidationError{"chat.follow", fmt.Sprintf("invalid mode %q, must be at-end or always", c.Chat.Follow)})
	}
	if c.Chat.FallbackHeight < 1 {
		errs = append(errs, ValidationError{"chat.fallback_height", "must be at least 1"})
	}
	if c.Chat.Overscan < 0 {
		errs = append(errs, ValidationError{"chat.overscan", "must not be negative"})
	}
	if c.Chat.RowPadding < 0 {
		errs = append(errs, ValidationError{"chat.row_padding", "must not be negative"})
	}
	if c.Chat.Timezone != "" {
		if _, err := time.LoadLocation(c.Chat.Timezone); err != nil {
			errs = append(errs, ValidationError{"chat.timezone", fmt.Sprintf("unknown zone %q", c.Chat.Timezone)})
		}
	}
	if c.Calendar.AgendaDays < 1 || c.Calendar.AgendaDays > 31 {
		errs = append(errs, ValidationError{"calendar.agenda_days", "must be between 1 and 31"})
	}
	if c.Calendar.HandshakeTimeout.Duration <= 0 {
		errs = append(errs, ValidationError{"calendar.handshake_timeout", "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
