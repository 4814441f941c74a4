package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alabama-forward/opal/logging"
	"github.com/alabama-forward/opal/news"
	"gopkg.in/yaml.v3"
)

// BrowserConfig controls the headless browser used for the court portal.
type BrowserConfig struct {
	Headless    bool          `yaml:"headless"`
	PageTimeout time.Duration `yaml:"page_timeout"`
	// SettleDelay is waited after the results table appears so the portal
	// can finish rendering rows and rewriting its URL.
	SettleDelay time.Duration `yaml:"settle_delay"`
	// RateLimit is the minimum time between page loads.
	RateLimit time.Duration `yaml:"rate_limit"`
}

// CourtsConfig holds portal settings.
type CourtsConfig struct {
	// FallbackIDs maps court keys (civil, criminal, supreme) to the IDs used
	// when they cannot be discovered on the portal.
	FallbackIDs map[string]string `yaml:"fallback_ids"`
	// Discover enables court ID discovery on the live portal.
	Discover bool `yaml:"discover"`
}

// HTTPConfig controls plain HTTP fetching of news sites.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	// PageDelay is the minimum time between listing page requests.
	PageDelay time.Duration `yaml:"page_delay"`
}

// NewsConfig holds news site settings.
type NewsConfig struct {
	// Parsers defines selector-driven parsers for sites without a built-in
	// parser, keyed by the name passed to --parser.
	Parsers map[string]news.SelectorConfig `yaml:"parsers"`
}

// OutputConfig controls where result files are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// StorageConfig represents storage configuration from config file.
type StorageConfig struct {
	// DSN is the SQLite database path; empty disables storage.
	DSN string `yaml:"dsn"`
}

// FileConfig represents the structure of ~/.opal/config.yaml.
type FileConfig struct {
	Browser BrowserConfig  `yaml:"browser"`
	Courts  CourtsConfig   `yaml:"courts"`
	HTTP    HTTPConfig     `yaml:"http"`
	News    NewsConfig     `yaml:"news"`
	Output  OutputConfig   `yaml:"output"`
	Storage StorageConfig  `yaml:"storage"`
	Log     logging.Config `yaml:"log"`
}

// DefaultCivilCourtID is the civil court ID known to work with the portal.
const DefaultCivilCourtID = "68f021c4-6a44-4735-9a76-5360b2e8af13"

// Default returns the configuration used when no config file exists.
func Default() *FileConfig {
	return &FileConfig{
		Browser: BrowserConfig{
			Headless:    true,
			PageTimeout: 30 * time.Second,
			SettleDelay: 2 * time.Second,
			RateLimit:   2 * time.Second,
		},
		Courts: CourtsConfig{
			FallbackIDs: map[string]string{"civil": DefaultCivilCourtID},
			Discover:    true,
		},
		HTTP: HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			PageDelay: time.Second,
		},
		Output: OutputConfig{Dir: "."},
		Log:    logging.Config{Level: "info", Format: "text"},
	}
}

// DefaultPath returns ~/.opal/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".opal", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.opal/config.yaml. Returns nil if
// the file doesn't exist (not an error). Returns error if the file exists but
// cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFileFrom(configPath)
}

// LoadConfigFileFrom loads configuration from configPath with the same rules
// as LoadConfigFile. Settings missing from the file keep their defaults.
func LoadConfigFileFrom(configPath string) (*FileConfig, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	// Read file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML over the defaults
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load returns the configuration at configPath, or at the default location
// when configPath is empty, falling back to Default when there is no file.
func Load(configPath string) (*FileConfig, error) {
	var (
		cfg *FileConfig
		err error
	)
	if configPath == "" {
		cfg, err = LoadConfigFile()
	} else {
		cfg, err = LoadConfigFileFrom(configPath)
	}
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return Default(), nil
	}
	return cfg, nil
}
