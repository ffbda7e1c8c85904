// Package config defines the boardsweep configuration surface. Values come
// from a YAML file, environment variables, or both; flags layered on top in
// cmd/ win over either.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Browser selects how the Chrome session is obtained.
type Browser struct {
	// AttachURL is a DevTools websocket URL of an already-running browser,
	// e.g. ws://127.0.0.1:9222/devtools/browser/<id>. Attaching is the
	// normal mode: the user is already logged in to the board there. When
	// empty, a browser is launched instead.
	AttachURL  string `yaml:"attach_url" env:"BOARDSWEEP_ATTACH_URL"`
	ChromePath string `yaml:"chrome_path" env:"BOARDSWEEP_CHROME_PATH"`
	Headless   bool   `yaml:"headless" env:"BOARDSWEEP_HEADLESS" env-default:"true"`
	// BoardURL is navigated to after launching. Ignored when attaching.
	BoardURL string `yaml:"board_url" env:"BOARDSWEEP_BOARD_URL"`
}

// Selectors maps the target application's page structure to the semantic
// pieces the sweeper needs. These are fixed lookups with a short fallback
// list for the archive item; there is no resilience beyond that to the host
// application changing its UI.
type Selectors struct {
	Row        string   `yaml:"row" env:"BOARDSWEEP_SEL_ROW" env-default:"li[data-task-id]"`
	RowIDAttr  string   `yaml:"row_id_attr" env:"BOARDSWEEP_SEL_ROW_ID_ATTR" env-default:"data-task-id"`
	Title      string   `yaml:"title" env:"BOARDSWEEP_SEL_TITLE" env-default:".task-title"`
	Tag        string   `yaml:"tag" env:"BOARDSWEEP_SEL_TAG" env-default:".task-tag"`
	Status     string   `yaml:"status" env:"BOARDSWEEP_SEL_STATUS" env-default:".task-status"`
	MenuButton string   `yaml:"menu_button" env:"BOARDSWEEP_SEL_MENU_BUTTON" env-default:"button[aria-label=\"More actions\"]"`
	Menu       string   `yaml:"menu" env:"BOARDSWEEP_SEL_MENU" env-default:"div[role=\"menu\"]"`
	ArchiveItems []string `yaml:"archive_items" env:"BOARDSWEEP_SEL_ARCHIVE_ITEMS" env-separator:"|" env-default:"[role=\"menuitem\"][data-action=\"archive\"]|button[data-action=\"archive\"]"`
}

// Policy is the keyword policy deciding which rows become candidates.
type Policy struct {
	Keywords    []string `yaml:"keywords" env:"BOARDSWEEP_KEYWORDS" env-separator:","`
	IgnoreRegex string   `yaml:"ignore_regex" env:"BOARDSWEEP_IGNORE_REGEX"`
	ScanLimit   int      `yaml:"scan_limit" env:"BOARDSWEEP_SCAN_LIMIT" env-default:"50"`
}

// Run tunes the retry and confirmation timing of the orchestrator.
type Run struct {
	Retries           int `yaml:"retries" env:"BOARDSWEEP_RETRIES" env-default:"3"`
	RetryDelayMS      int `yaml:"retry_delay_ms" env:"BOARDSWEEP_RETRY_DELAY_MS" env-default:"150"`
	ConfirmTimeoutMS  int `yaml:"confirm_timeout_ms" env:"BOARDSWEEP_CONFIRM_TIMEOUT_MS" env-default:"4000"`
	ConfirmIntervalMS int `yaml:"confirm_interval_ms" env:"BOARDSWEEP_CONFIRM_INTERVAL_MS" env-default:"100"`
}

func (r Run) RetryDelay() time.Duration      { return time.Duration(r.RetryDelayMS) * time.Millisecond }
func (r Run) ConfirmTimeout() time.Duration  { return time.Duration(r.ConfirmTimeoutMS) * time.Millisecond }
func (r Run) ConfirmInterval() time.Duration { return time.Duration(r.ConfirmIntervalMS) * time.Millisecond }

// Config is the overall boardsweep configuration.
type Config struct {
	Browser   Browser   `yaml:"browser"`
	Selectors Selectors `yaml:"selectors"`
	Policy    Policy    `yaml:"policy"`
	Run       Run       `yaml:"run"`
}

// Load reads configuration from the given YAML file plus the environment.
// An empty path reads the environment (and defaults) only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return &cfg, nil
}
