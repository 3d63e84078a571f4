package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// CLIOverrides holds values from command-line flags, the highest-priority
// layer of the override chain. Zero values mean "not set".
type CLIOverrides struct {
	ConfigPath  string
	BaseURL     string
	Token       string
	DownloadDir string
	Parallel    int
}

// Load reads and parses a TOML config file and returns the resulting
// Config. Unknown keys are fatal — silently ignoring a typo in a config
// file leads to hard-to-debug behavior.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}

		return nil, fmt.Errorf("config: unknown keys in %s: %v", path, keys)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns a
// Config populated with all default values. Supports a zero-config first
// run where everything comes from CANVAS_URL/CANVAS_TOKEN.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve loads configuration and applies the four-layer override chain:
// defaults -> config file -> environment variables -> CLI flags. The
// precedence order ensures CLI flags always win, matching user
// expectations for one-off overrides without editing the config file.
// A missing token or base URL after all layers is a fatal startup error.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Resolved, error) {
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{
		BaseURL:     cfg.API.BaseURL,
		Token:       cfg.API.Token,
		DownloadDir: cfg.Downloads.Dir,
		Parallel:    cfg.Downloads.Parallel,
		Delay:       time.Duration(cfg.Downloads.DelayMS) * time.Millisecond,
		LogLevel:    cfg.Logging.Level,
	}

	applyEnv(resolved, env)
	applyCLI(resolved, cli)

	if resolved.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	if resolved.Token == "" {
		return nil, ErrMissingToken
	}

	if resolved.Parallel < 1 {
		resolved.Parallel = 1
	}

	return resolved, nil
}

func applyEnv(resolved *Resolved, env EnvOverrides) {
	if env.BaseURL != "" {
		resolved.BaseURL = env.BaseURL
	}

	if env.Token != "" {
		resolved.Token = env.Token
	}

	if env.DownloadDir != "" {
		resolved.DownloadDir = env.DownloadDir
	}
}

func applyCLI(resolved *Resolved, cli CLIOverrides) {
	if cli.BaseURL != "" {
		resolved.BaseURL = cli.BaseURL
	}

	if cli.Token != "" {
		resolved.Token = cli.Token
	}

	if cli.DownloadDir != "" {
		resolved.DownloadDir = cli.DownloadDir
	}

	if cli.Parallel > 0 {
		resolved.Parallel = cli.Parallel
	}
}
