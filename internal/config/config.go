package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"sigs.k8s.io/yaml"

	"github.com/arielsanchezmora/vdoc/internal/util"
)

const (
	// DefaultWorkers is the number of hosts documented concurrently.
	DefaultWorkers = 4
	// DefaultTaskPollInterval is the interval between two polls of a
	// long-running host task, such as a patch scan.
	DefaultTaskPollInterval = 5 * time.Second
	// DefaultTaskTimeout bounds how long a single host task may run before
	// the poller gives up on it.
	DefaultTaskTimeout = 10 * time.Minute
)

type Config struct {
	// URL is the vCenter or ESXi SDK endpoint, e.g. https://vcenter.local/sdk
	URL string `envconfig:"VDOC_URL" json:"url"`
	// Username and Password authenticate the session.
	Username string `envconfig:"VDOC_USERNAME" json:"username"`
	Password string `envconfig:"VDOC_PASSWORD" json:"password"`
	// Insecure skips TLS certificate verification.
	Insecure bool `envconfig:"VDOC_INSECURE" default:"true" json:"insecure,omitempty"`

	// Workers is the size of the per-host fan-out pool.
	Workers int `envconfig:"VDOC_WORKERS" default:"4" json:"workers,omitempty"`

	// FolderPath is where CSV and XLSX exports are written.
	FolderPath string `envconfig:"VDOC_FOLDER_PATH" default:"." json:"folder-path,omitempty"`

	// AdvisoryURL optionally points at a CSV advisory table used for the
	// security report. When empty the embedded table is used.
	AdvisoryURL string `envconfig:"VDOC_ADVISORY_URL" json:"advisory-url,omitempty"`

	// TaskPollInterval and TaskTimeout control the patch-scan task poller.
	TaskPollInterval util.Duration `envconfig:"VDOC_TASK_POLL_INTERVAL" default:"5s" json:"task-poll-interval,omitempty"`
	TaskTimeout      util.Duration `envconfig:"VDOC_TASK_TIMEOUT" default:"10m" json:"task-timeout,omitempty"`

	// LogLevel is the level of logging. can be: "panic", "fatal", "error",
	// "warn"/"warning", "info" or "debug", any other will be treated as "info"
	LogLevel string `envconfig:"VDOC_LOG_LEVEL" default:"info" json:"log-level,omitempty"`
}

// New builds a Config from environment variables.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load overlays a YAML config file on top of the environment-derived config.
// A missing file is not an error; the environment values stand.
func Load(path string) (*Config, error) {
	cfg, err := New()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.URL == "" {
		return fmt.Errorf("url is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.TaskPollInterval.Duration <= 0 {
		cfg.TaskPollInterval = util.Duration{Duration: DefaultTaskPollInterval}
	}
	if cfg.TaskTimeout.Duration <= 0 {
		cfg.TaskTimeout = util.Duration{Duration: DefaultTaskTimeout}
	}
	return nil
}
