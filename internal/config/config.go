// internal/config/config.go
//
// This package handles configuration and the .urbanwizard directory structure.
// Every project that runs the wizard gets a .urbanwizard/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// WizardDir is the name of the directory we create in each project
	WizardDir = ".urbanwizard"

	// StoreFile keeps one JSON document per session.
	StoreFile = "file"
	// StoreSQLite keeps every session in a single SQLite database.
	StoreSQLite = "sqlite"

	InvalidationDelete    = "delete"
	InvalidationMarkStale = "mark-stale"

	defaultSessionID = "default"
	defaultLogLevel  = "info"
	sqliteFileName   = "urbanwizard.db"
)

const defaultProjectConfigYAML = `# urbanwizard project configuration
version: 1

# Where session event logs are kept. backend is "file" or "sqlite".
# path defaults to .urbanwizard/sessions for file and .urbanwizard/state/urbanwizard.db for sqlite.
store:
  backend: file

logging:
  level: info

wizard:
  session: default
  # How system answers are retracted when an earlier answer changes: delete or mark-stale.
  invalidation: delete
  # Site description consumed by the wizard (YAML).
  # site: sites/site.yaml
`

// StoreConfig selects the event log backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// WizardConfig holds wizard preferences.
type WizardConfig struct {
	Session      string `yaml:"session"`
	Invalidation string `yaml:"invalidation"`
	Site         string `yaml:"site,omitempty"`
}

// ProjectConfig models .urbanwizard/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Wizard  WizardConfig  `yaml:"wizard"`
}

// EnvOverrides are read from the environment after the config file and win
// over it.
type EnvOverrides struct {
	Store        string `env:"URBANWIZARD_STORE"`
	StorePath    string `env:"URBANWIZARD_STORE_PATH"`
	LogLevel     string `env:"URBANWIZARD_LOG_LEVEL"`
	Invalidation string `env:"URBANWIZARD_INVALIDATION"`
	Site         string `env:"URBANWIZARD_SITE"`
	Session      string `env:"URBANWIZARD_SESSION"`
}

// Config holds the runtime configuration of the wizard.
type Config struct {
	// ProjectDir is the directory the wizard runs from
	ProjectDir string

	// WizardProjectDir is ProjectDir/.urbanwizard
	WizardProjectDir string

	Project ProjectConfig
}

// InitWizardDir creates the .urbanwizard directory structure in projectDir.
//
// Structure created:
// .urbanwizard/
// ├── config.yaml
// ├── exports/    <- Markdown project exports
// ├── logs/       <- zap output
// ├── sessions/   <- JSON event logs, one per session
// ├── sites/      <- site descriptions
// └── state/      <- SQLite database
func InitWizardDir(projectDir string) error {
	wizardDir := filepath.Join(projectDir, WizardDir)

	dirs := []string{
		filepath.Join(wizardDir, "exports"),
		filepath.Join(wizardDir, "logs"),
		filepath.Join(wizardDir, "sessions"),
		filepath.Join(wizardDir, "sites"),
		filepath.Join(wizardDir, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(filepath.Join(wizardDir, "config.yaml"))
}

// NewConfig reads .urbanwizard/config.yaml under projectDir and applies
// environment overrides. A missing config file yields the defaults.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:       projectDir,
		WizardProjectDir: filepath.Join(projectDir, WizardDir),
		Project:          defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	var overrides EnvOverrides
	if err := ParseEnv(&overrides); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyOverrides replaces the configured values with the non-empty overrides.
func (c *Config) ApplyOverrides(o EnvOverrides) error {
	if v := strings.TrimSpace(o.Store); v != "" {
		c.Project.Store.Backend = v
	}
	if v := strings.TrimSpace(o.StorePath); v != "" {
		c.Project.Store.Path = v
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		c.Project.Logging.Level = v
	}
	if v := strings.TrimSpace(o.Invalidation); v != "" {
		c.Project.Wizard.Invalidation = v
	}
	if v := strings.TrimSpace(o.Site); v != "" {
		c.Project.Wizard.Site = v
	}
	if v := strings.TrimSpace(o.Session); v != "" {
		c.Project.Wizard.Session = v
	}
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.WizardProjectDir, "logs")
}

// ExportsDir returns the path to the project exports directory
func (c *Config) ExportsDir() string {
	return filepath.Join(c.WizardProjectDir, "exports")
}

// ExportPath returns where the export of session is written.
func (c *Config) ExportPath(session string) string {
	return filepath.Join(c.ExportsDir(), session+".md")
}

// SessionsDir returns the directory holding JSON session logs
func (c *Config) SessionsDir() string {
	return filepath.Join(c.WizardProjectDir, "sessions")
}

// StateDir returns the path to the state directory
func (c *Config) StateDir() string {
	return filepath.Join(c.WizardProjectDir, "state")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.WizardProjectDir, "config.yaml")
}

// StoreBackend returns the configured event log backend.
func (c *Config) StoreBackend() string {
	return c.Project.Store.Backend
}

// StorePath returns where the configured backend keeps its data.
func (c *Config) StorePath() string {
	if c.Project.Store.Path != "" {
		return c.Project.Store.Path
	}
	if c.Project.Store.Backend == StoreSQLite {
		return filepath.Join(c.StateDir(), sqliteFileName)
	}
	return c.SessionsDir()
}

// LogLevel returns the configured zap level name.
func (c *Config) LogLevel() string {
	return c.Project.Logging.Level
}

// LogFile returns the file the logger writes to.
func (c *Config) LogFile() string {
	if c.Project.Logging.File != "" {
		return c.Project.Logging.File
	}
	return filepath.Join(c.LogsDir(), "urbanwizard.log")
}

// Invalidation returns how system answers are retracted.
func (c *Config) Invalidation() string {
	return c.Project.Wizard.Invalidation
}

// SitePath returns the site description file, or "" when none is configured.
func (c *Config) SitePath() string {
	return c.Project.Wizard.Site
}

// Session returns the default session identifier.
func (c *Config) Session() string {
	return c.Project.Wizard.Session
}

// SetSession updates the default session and persists it back to
// .urbanwizard/config.yaml. Environment overrides are not written.
func (c *Config) SetSession(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("config: session id is required")
	}
	persisted, err := c.readPersistedConfig()
	if err != nil {
		return err
	}
	persisted.Wizard.Session = id
	if err := c.saveProjectConfig(persisted); err != nil {
		return err
	}
	c.Project.Wizard.Session = id
	return nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Project.normalize(c.ProjectDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Store:   StoreConfig{Backend: StoreFile},
		Logging: LoggingConfig{Level: defaultLogLevel},
		Wizard: WizardConfig{
			Session:      defaultSessionID,
			Invalidation: InvalidationDelete,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	defaults := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = defaults.Version
	}
	if strings.TrimSpace(pc.Store.Backend) == "" {
		pc.Store.Backend = defaults.Store.Backend
	}
	if strings.TrimSpace(pc.Logging.Level) == "" {
		pc.Logging.Level = defaults.Logging.Level
	}
	if strings.TrimSpace(pc.Wizard.Session) == "" {
		pc.Wizard.Session = defaults.Wizard.Session
	}
	if strings.TrimSpace(pc.Wizard.Invalidation) == "" {
		pc.Wizard.Invalidation = defaults.Wizard.Invalidation
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Store.Backend = normalizeName(pc.Store.Backend)
	pc.Store.Path = resolvePath(base, pc.Store.Path)
	pc.Logging.Level = normalizeName(pc.Logging.Level)
	pc.Logging.File = resolvePath(base, pc.Logging.File)
	pc.Wizard.Session = strings.TrimSpace(pc.Wizard.Session)
	pc.Wizard.Invalidation = normalizeName(pc.Wizard.Invalidation)
	pc.Wizard.Site = resolvePath(base, pc.Wizard.Site)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch pc.Store.Backend {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("store.backend must be 'file' or 'sqlite'")
	}
	switch pc.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	switch pc.Wizard.Invalidation {
	case InvalidationDelete, InvalidationMarkStale:
	default:
		return fmt.Errorf("wizard.invalidation must be 'delete' or 'mark-stale'")
	}
	if pc.Wizard.Session == "" {
		return fmt.Errorf("wizard.session is required")
	}
	if strings.ContainsAny(pc.Wizard.Session, `/\`) {
		return fmt.Errorf("wizard.session must not contain path separators")
	}
	return nil
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, WizardDir, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

// readPersistedConfig returns config.yaml as written, without overrides or
// resolved paths.
func (c *Config) readPersistedConfig() (ProjectConfig, error) {
	data, err := os.ReadFile(c.ProjectConfigPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultProjectConfig(), nil
		}
		return ProjectConfig{}, fmt.Errorf("config: read %s: %w", c.ProjectConfigPath(), err)
	}
	var pc ProjectConfig
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return ProjectConfig{}, fmt.Errorf("config: parse %s: %w", c.ProjectConfigPath(), err)
	}
	pc.applyDefaults()
	return pc, nil
}

func (c *Config) saveProjectConfig(pc ProjectConfig) error {
	check := pc
	check.normalize(c.ProjectDir)
	if err := check.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.WizardProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure wizard dir: %w", err)
	}
	data, err := yaml.Marshal(pc)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
