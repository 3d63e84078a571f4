package config

import "os"

// Environment variable names for overrides. CANVAS_URL and CANVAS_TOKEN
// match the names the companion scripts have historically used, so an
// existing .env keeps working.
const (
	EnvBaseURL     = "CANVAS_URL"
	EnvToken       = "CANVAS_TOKEN"
	EnvConfig      = "CANVAS_GO_CONFIG"
	EnvDownloadDir = "CANVAS_GO_DOWNLOAD_DIR"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	BaseURL     string
	Token       string
	ConfigPath  string
	DownloadDir string
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. This does not modify any Config; Resolve applies the fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		BaseURL:     os.Getenv(EnvBaseURL),
		Token:       os.Getenv(EnvToken),
		ConfigPath:  os.Getenv(EnvConfig),
		DownloadDir: os.Getenv(EnvDownloadDir),
	}
}
