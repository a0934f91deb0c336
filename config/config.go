package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type SearchConfig struct {
	Country    string `toml:"country"`
	MaxResults int    `toml:"max_results"`
	MaxRetries int    `toml:"max_retries"`
}

type UserConfig struct {
	Provider        string       `toml:"provider"`
	ModelName       string       `toml:"model_name"`
	ReasoningEffort string       `toml:"reasoning_effort"`
	ShowReasoning   bool         `toml:"show_reasoning"`
	EnableWebSearch bool         `toml:"enable_web_search"`
	EnableMCP       bool         `toml:"enable_mcp"`
	OllamaHost      string       `toml:"ollama_host,omitempty"`
	SecurityMethod  string       `toml:"security_method,omitempty"`
	SSHKeyPath      string       `toml:"ssh_key_path,omitempty"`
	Search          SearchConfig `toml:"search"`
}

// Config is the merged runtime configuration consumed by the rest of the
// application. It is read once at startup and treated as a snapshot; the only
// writers are the UI-level toggle handlers, which persist through Save.
type Config struct {
	DataDirectory   string
	Provider        string
	ModelName       string
	ReasoningEffort string
	ShowReasoning   bool
	EnableWebSearch bool
	EnableMCP       bool
	OllamaHost      string
	SecurityMethod  string
	SSHKeyPath      string
	SearchCountry   string
	SearchResults   int
	SearchRetries   int
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("GROKCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if model := os.Getenv("GROKCHAT_MODEL"); model != "" {
		c.ModelName = model
	}
}

func CheckDebug() bool {
	debug := os.Getenv("GROKCHAT_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - debug output can contain query text
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (GROKCHAT_DEBUG=%s) ===", os.Getenv("GROKCHAT_DEBUG"))
}

func Load() (*Config, error) {
	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{
		DataDirectory: systemCfg.DataDirectory,
	}
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	cfg.Provider = userCfg.Provider
	cfg.ModelName = userCfg.ModelName
	cfg.ReasoningEffort = userCfg.ReasoningEffort
	cfg.ShowReasoning = userCfg.ShowReasoning
	cfg.EnableWebSearch = userCfg.EnableWebSearch
	cfg.EnableMCP = userCfg.EnableMCP
	cfg.OllamaHost = userCfg.OllamaHost
	cfg.SecurityMethod = userCfg.SecurityMethod
	cfg.SSHKeyPath = userCfg.SSHKeyPath
	cfg.SearchCountry = userCfg.Search.Country
	cfg.SearchResults = userCfg.Search.MaxResults
	cfg.SearchRetries = userCfg.Search.MaxRetries
	if model := os.Getenv("GROKCHAT_MODEL"); model != "" {
		cfg.ModelName = model
	}

	return cfg, nil
}

// Save persists the mutable user settings back to config.toml. The system
// config (data directory) is never rewritten here.
func (c *Config) Save() error {
	userCfg := &UserConfig{
		Provider:        c.Provider,
		ModelName:       c.ModelName,
		ReasoningEffort: c.ReasoningEffort,
		ShowReasoning:   c.ShowReasoning,
		EnableWebSearch: c.EnableWebSearch,
		EnableMCP:       c.EnableMCP,
		OllamaHost:      c.OllamaHost,
		SecurityMethod:  c.SecurityMethod,
		SSHKeyPath:      c.SSHKeyPath,
		Search: SearchConfig{
			Country:    c.SearchCountry,
			MaxResults: c.SearchResults,
			MaxRetries: c.SearchRetries,
		},
	}
	return SaveUserConfig(userCfg, c.DataDir())
}
