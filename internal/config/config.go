package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	BaseDir string `toml:"base_dir"`
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Transcode contains configuration for the external ffmpeg collaborator.
type Transcode struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	MinFreeMiB    int64  `toml:"min_free_mib"`
}

// Archive contains configuration for delivery zip generation.
type Archive struct {
	CompressionLevel int `toml:"compression_level"`
}

// Workflow contains configuration for daemon timing.
type Workflow struct {
	JobPollInterval int `toml:"job_poll_interval"`
}

// Config encapsulates all configuration values for MechanicFlow.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
	Transcode Transcode `toml:"transcode"`
	Archive   Archive   `toml:"archive"`
	Workflow  Workflow  `toml:"workflow"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/mechanicflow/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	candidate := strings.TrimSpace(path)
	if candidate == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		candidate = defaultPath
	} else {
		expanded, err := ExpandPath(candidate)
		if err != nil {
			return "", false, err
		}
		candidate = expanded
	}

	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return candidate, true, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.BaseDir, &c.Paths.DataDir, &c.Paths.LogDir} {
		expanded, err := ExpandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.BaseDir) == "" {
		return errors.New("config: base_dir is required")
	}
	if strings.TrimSpace(c.Transcode.FFmpegBinary) == "" {
		return errors.New("config: ffmpeg_binary is required")
	}
	if c.Archive.CompressionLevel < 1 || c.Archive.CompressionLevel > 9 {
		return fmt.Errorf("config: compression_level %d out of range 1..9", c.Archive.CompressionLevel)
	}
	if c.Workflow.JobPollInterval <= 0 {
		return errors.New("config: job_poll_interval must be positive")
	}
	return nil
}

// EnsureDirectories creates the directories the rest of the system assumes exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.BaseDir, c.TrashDir(), c.Paths.DataDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// TrashDir returns the reserved trash folder for soft-deleted clients.
func (c *Config) TrashDir() string {
	return filepath.Join(c.Paths.BaseDir, TrashFolderName)
}

// QueueDBPath returns the transcode job database location.
func (c *Config) QueueDBPath() string {
	return filepath.Join(c.Paths.DataDir, "jobs.db")
}

// LockPath returns the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "mechanicflowd.lock")
}

// SocketPath returns the IPC socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.DataDir, "mechanicflowd.sock")
}

// LogFilePath returns the daemon log file location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "mechanicflowd.log")
}

// CreateSample writes the embedded sample configuration to the given path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a leading ~ against the user home directory and
// returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}
