package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"kanstamp/internal/kanban"
)

const (
	DefaultBoardPath       = "Work/Work.md"
	DefaultStorage         = StorageLocal
	DefaultAPIURL          = "http://127.0.0.1:7334"
	DefaultLogLevel        = "info"
	DefaultWatchDebounceMS = 250
	DefaultS3Region        = "us-east-1"

	StorageLocal = "local"
	StorageS3    = "s3"

	configFileName           = ".kanstamp.toml"
	configDirEnvKey          = "KANSTAMP_CONFIG_DIR"
	trustProjectConfigEnvKey = "KANSTAMP_TRUST_PROJECT_CONFIG"
)

// ColumnConfig names the destination columns used by rollover and archive.
type ColumnConfig struct {
	Backlog string `toml:"backlog"`
	Archive string `toml:"archive"`
}

// TagConfig names the heading tags the stamping passes key on.
type TagConfig struct {
	InProgress string `toml:"in_progress"`
	Done       string `toml:"done"`
	Blocked    string `toml:"blocked"`
}

// JournalConfig enables the sqlite run journal when Path is set.
type JournalConfig struct {
	Path string `toml:"path"`
}

// WatchConfig tunes the save-event watcher.
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// S3Config points the document store at an S3-compatible bucket.
type S3Config struct {
	Endpoint     string `toml:"endpoint"`
	Bucket       string `toml:"bucket"`
	Region       string `toml:"region"`
	Prefix       string `toml:"prefix"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	UsePathStyle bool   `toml:"use_path_style"`
}

// Config defines runtime configuration for kanstamp.
type Config struct {
	BoardPath                string        `toml:"board_path"`
	VaultDir                 string        `toml:"vault_dir"`
	Storage                  string        `toml:"storage"`
	APIURL                   string        `toml:"api_url"`
	LogLevel                 string        `toml:"log_level"`
	Columns                  ColumnConfig  `toml:"columns"`
	Tags                     TagConfig     `toml:"tags"`
	Journal                  JournalConfig `toml:"journal"`
	Watch                    WatchConfig   `toml:"watch"`
	S3                       S3Config      `toml:"s3"`
	TrustedProjectConfigPath string        `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		BoardPath: DefaultBoardPath,
		Storage:   DefaultStorage,
		APIURL:    DefaultAPIURL,
		LogLevel:  DefaultLogLevel,
		Columns: ColumnConfig{
			Backlog: kanban.DefaultBacklogColumn,
			Archive: kanban.DefaultArchiveColumn,
		},
		Tags: TagConfig{
			InProgress: kanban.DefaultInProgressTag,
			Done:       kanban.DefaultDoneTag,
			Blocked:    kanban.DefaultBlockedTag,
		},
		Watch: WatchConfig{DebounceMS: DefaultWatchDebounceMS},
		S3:    S3Config{Region: DefaultS3Region},
	}
}

// BoardOptions maps the column and tag settings onto the board passes.
func (c *Config) BoardOptions() kanban.Options {
	return kanban.Options{
		BacklogColumn: c.Columns.Backlog,
		ArchiveColumn: c.Columns.Archive,
		InProgressTag: c.Tags.InProgress,
		DoneTag:       c.Tags.Done,
		BlockedTag:    c.Tags.Blocked,
	}
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"board_path",
	"vault_dir",
	"storage",
	"api_url",
	"log_level",
	"columns.backlog",
	"columns.archive",
	"tags.in_progress",
	"tags.done",
	"tags.blocked",
	"journal.path",
	"watch.debounce_ms",
	"s3.endpoint",
	"s3.bucket",
	"s3.region",
	"s3.prefix",
	"s3.use_path_style",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "board_path":
		return c.BoardPath, nil
	case "vault_dir":
		return c.VaultDir, nil
	case "storage":
		return c.Storage, nil
	case "api_url":
		return c.APIURL, nil
	case "log_level":
		return c.LogLevel, nil
	case "columns.backlog":
		return c.Columns.Backlog, nil
	case "columns.archive":
		return c.Columns.Archive, nil
	case "tags.in_progress":
		return c.Tags.InProgress, nil
	case "tags.done":
		return c.Tags.Done, nil
	case "tags.blocked":
		return c.Tags.Blocked, nil
	case "journal.path":
		return c.Journal.Path, nil
	case "watch.debounce_ms":
		return strconv.Itoa(c.Watch.DebounceMS), nil
	case "s3.endpoint":
		return c.S3.Endpoint, nil
	case "s3.bucket":
		return c.S3.Bucket, nil
	case "s3.region":
		return c.S3.Region, nil
	case "s3.prefix":
		return c.S3.Prefix, nil
	case "s3.use_path_style":
		return strconv.FormatBool(c.S3.UsePathStyle), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, configFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if cfg.VaultDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.VaultDir = cwd
		}
	}

	if board := os.Getenv("KANSTAMP_BOARD"); board != "" {
		cfg.BoardPath = board
	}
	if vault := os.Getenv("KANSTAMP_VAULT"); vault != "" {
		cfg.VaultDir = vault
	}
	if apiURL := os.Getenv("KANSTAMP_API_URL"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if journal := os.Getenv("KANSTAMP_JOURNAL"); journal != "" {
		cfg.Journal.Path = journal
	}
	if key := os.Getenv("KANSTAMP_S3_ACCESS_KEY"); key != "" {
		cfg.S3.AccessKey = key
	}
	if secret := os.Getenv("KANSTAMP_S3_SECRET_KEY"); secret != "" {
		cfg.S3.SecretKey = secret
	}

	cfg.normalize()

	return &cfg, nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "watch.debounce_ms":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer", key)
		}
		return parsed, nil
	case "s3.use_path_style":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false", key)
		}
		return parsed, nil
	case "storage":
		if value != StorageLocal && value != StorageS3 {
			return nil, fmt.Errorf("storage must be %q or %q", StorageLocal, StorageS3)
		}
		return value, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalize() {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.Storage == "" {
		c.Storage = DefaultStorage
	}
	if c.Watch.DebounceMS < 0 {
		c.Watch.DebounceMS = DefaultWatchDebounceMS
	}
	if strings.TrimSpace(c.S3.Region) == "" {
		c.S3.Region = DefaultS3Region
	}
}
