package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestMCPSettingsPreservesFileOrder(t *testing.T) {
	doc := `{
  "mcpServers": {
    "zeta-mcp": {"autoApprove": ["one"]},
    "alpha-mcp": {"autoApprove": ["two"], "disabled": true},
    "middle-mcp": {"alwaysAllow": ["three"]}
  }
}`

	var settings MCPSettings
	if err := json.Unmarshal([]byte(doc), &settings); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	want := []string{"zeta-mcp", "alpha-mcp", "middle-mcp"}
	if got := settings.ServerNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ServerNames() = %v, want %v", got, want)
	}

	if !settings.Server("alpha-mcp").Disabled {
		t.Error("alpha-mcp should be disabled")
	}

	// Round trip keeps the order too.
	out, err := json.Marshal(&settings)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	text := string(out)
	zeta := strings.Index(text, "zeta-mcp")
	alpha := strings.Index(text, "alpha-mcp")
	middle := strings.Index(text, "middle-mcp")
	if zeta < 0 || alpha < 0 || middle < 0 || !(zeta < alpha && alpha < middle) {
		t.Errorf("marshal lost server order: %s", text)
	}
}

func TestLoadMCPSettingsPrefersPrivateFile(t *testing.T) {
	dir := t.TempDir()

	regular := `{"mcpServers": {"regular-mcp": {}}}`
	private := `{"mcpServers": {"private-mcp": {}}}`
	if err := os.WriteFile(filepath.Join(dir, MCPSettingsFile), []byte(regular), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "@"+MCPSettingsFile), []byte(private), 0600); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadMCPSettings(dir)
	if err != nil {
		t.Fatalf("LoadMCPSettings failed: %v", err)
	}
	if !settings.HasServer("private-mcp") || settings.HasServer("regular-mcp") {
		t.Errorf("expected only the private file to load, got %v", settings.ServerNames())
	}
}

func TestLoadMCPSettingsMissingFile(t *testing.T) {
	settings, err := LoadMCPSettings(t.TempDir())
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if len(settings.ServerNames()) != 0 {
		t.Errorf("expected empty settings, got %v", settings.ServerNames())
	}
}

func TestCreateDefaultMCPSettings(t *testing.T) {
	dir := t.TempDir()

	settings, err := CreateDefaultMCPSettings(dir)
	if err != nil {
		t.Fatalf("CreateDefaultMCPSettings failed: %v", err)
	}
	want := []string{"brave-search", "firecrawl-mcp"}
	if got := settings.ServerNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ServerNames() = %v, want %v", got, want)
	}

	reloaded, err := LoadMCPSettings(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := reloaded.ServerNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded ServerNames() = %v, want %v", got, want)
	}
}
