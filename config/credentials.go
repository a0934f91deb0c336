package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SecurityMethod defines the credential storage method
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

// Credential IDs recognised by the store.
const (
	CredentialXAI       = "xai"
	CredentialAnthropic = "anthropic"
	CredentialBrave     = "brave"
)

// credentialEnvVars maps credential IDs to the environment variables that
// override the stored values.
var credentialEnvVars = map[string]string{
	CredentialXAI:       "XAI_API_KEY",
	CredentialAnthropic: "ANTHROPIC_API_KEY",
	CredentialBrave:     "BRAVE_API_KEY",
}

// CredentialStore manages API keys, either as a plaintext JSON file or
// encrypted with a key derived from the user's SSH key.
type CredentialStore struct {
	method      SecurityMethod
	credentials map[string]string
	encManager  *EncryptionManager
}

func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	store := &CredentialStore{
		method:      method,
		credentials: make(map[string]string),
	}
	if method == SecuritySSHKey {
		store.encManager = NewEncryptionManager(EncryptionSSHKey, sshKeyPath)
	}
	return store
}

// SetPassphrase sets the passphrase for decrypting the SSH key
func (c *CredentialStore) SetPassphrase(passphrase string) {
	if c.encManager != nil {
		c.encManager.SetPassphrase(passphrase)
	}
}

// Load reads credentials from disk. A missing file is not an error; the
// store simply stays empty and Get falls through to the environment.
func (c *CredentialStore) Load(dataDir string) error {
	path := c.filePath(dataDir)
	if !FileExists(path) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	if c.method == SecuritySSHKey {
		if err := c.encManager.Initialize(); err != nil {
			return err
		}
		data, err = c.encManager.Decrypt(data)
		if err != nil {
			return err
		}
	}

	creds := make(map[string]string)
	if err := json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("failed to parse credentials: %w", err)
	}
	c.credentials = creds
	return nil
}

// Save writes credentials to disk using the configured security method.
func (c *CredentialStore) Save(dataDir string) error {
	data, err := json.MarshalIndent(c.credentials, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if c.method == SecuritySSHKey {
		if c.encManager.aesKey == nil {
			if err := c.encManager.Initialize(); err != nil {
				return err
			}
		}
		data, err = c.encManager.Encrypt(data)
		if err != nil {
			return err
		}
	}

	// 0600 - API keys
	if err := os.WriteFile(c.filePath(dataDir), data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Get returns the API key for id. Environment variables always win over the
// stored value so keys never have to touch disk.
func (c *CredentialStore) Get(id string) string {
	if envVar, ok := credentialEnvVars[id]; ok {
		if v := os.Getenv(envVar); v != "" {
			return v
		}
	}
	return c.credentials[id]
}

// Set stores the API key for id in memory; call Save to persist.
func (c *CredentialStore) Set(id, key string) {
	c.credentials[id] = key
}

func (c *CredentialStore) filePath(dataDir string) string {
	if c.method == SecuritySSHKey {
		return filepath.Join(dataDir, "credentials.enc")
	}
	return filepath.Join(dataDir, "credentials.json")
}
