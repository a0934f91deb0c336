package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"grokchat/chat"
	"grokchat/config"
	"grokchat/provider"
	"grokchat/search"
	"grokchat/storage"
	"grokchat/tools"
	"grokchat/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	config.InitDebugLog(cfg.DataDir())

	// Credentials: env vars win, otherwise the (possibly encrypted) store.
	creds := config.NewCredentialStore(config.SecurityMethod(cfg.SecurityMethod), cfg.SSHKeyPath)
	if err := creds.Load(cfg.DataDir()); err != nil && config.Debug {
		config.DebugLog.Printf("credential store: %v", err)
	}

	mcpSettings, err := config.LoadMCPSettings(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to load tool settings: %v\n", err)
		os.Exit(1)
	}
	// First run: write the starter server configuration.
	if len(mcpSettings.ServerNames()) == 0 && !config.FileExists(filepath.Join(cfg.DataDir(), config.MCPSettingsFile)) {
		if created, err := config.CreateDefaultMCPSettings(cfg.DataDir()); err == nil {
			mcpSettings = created
		} else if config.Debug {
			config.DebugLog.Printf("default tool settings: %v", err)
		}
	}

	store, err := storage.NewStore(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to open conversation store: %v\n", err)
		os.Exit(1)
	}

	index, err := storage.NewSearchIndex(cfg.DataDir())
	if err != nil {
		// Search degrades gracefully; the chat itself still works.
		if config.Debug {
			config.DebugLog.Printf("search index: %v", err)
		}
		index = nil
	} else {
		defer index.Close()
	}

	prov := buildProvider(cfg, creds)

	searchClient := search.NewClient(creds.Get(config.CredentialBrave))
	searchOpts := search.Options{
		Country:    cfg.SearchCountry,
		Count:      cfg.SearchResults,
		MaxRetries: cfg.SearchRetries,
	}

	registry := tools.NewRegistry(mcpSettings)
	relay := ui.NewStatusRelay()
	selector := tools.NewSelector(registry, func(text string) {
		relay.Func()(chat.StateSelecting, text)
	})
	executor := tools.NewExecutor(searchClient, cfg.SearchCountry, cfg.SearchRetries)

	engine := chat.NewEngine(prov, selector, executor, searchClient, searchOpts, relay.Func())

	app := ui.New(ui.Options{
		Config:      cfg,
		Credentials: creds,
		MCPSettings: mcpSettings,
		Engine:      engine,
		Provider:    prov,
		Store:       store,
		Index:       index,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	relay.Attach(p)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running grokchat: %v\n", err)
		os.Exit(1)
	}
}

// buildProvider constructs the configured provider. A missing API key is a
// configuration error, not a fatal one: the UI starts anyway and the engine
// reports the problem on the first turn.
func buildProvider(cfg *config.Config, creds *config.CredentialStore) provider.Provider {
	providerType := provider.MapProviderIDToType(cfg.Provider)

	pcfg := provider.Config{
		Type:  providerType,
		Model: cfg.ModelName,
	}
	switch providerType {
	case provider.ProviderTypeXAI:
		pcfg.APIKey = creds.Get(config.CredentialXAI)
	case provider.ProviderTypeAnthropic:
		pcfg.APIKey = creds.Get(config.CredentialAnthropic)
	case provider.ProviderTypeOllama:
		pcfg.BaseURL = cfg.OllamaHost
	}

	prov, err := provider.NewProvider(pcfg)
	if err != nil {
		if config.Debug {
			config.DebugLog.Printf("provider init: %v", err)
		}
		return nil
	}
	return prov
}
