package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
)

// EncryptionMethod defines how data at rest is encrypted
type EncryptionMethod string

const (
	EncryptionNone   EncryptionMethod = "none"
	EncryptionSSHKey EncryptionMethod = "ssh_key"
)

// keyDerivationChallenge is signed with the user's SSH key to derive the AES
// key. Changing this value invalidates every encrypted credential file.
const keyDerivationChallenge = "grokchat-credential-encryption-v1"

// EncryptionManager encrypts credential data with an AES-256-GCM key derived
// from a deterministic SSH signature. The SSH key never leaves disk; only the
// derived key is held in memory.
type EncryptionManager struct {
	method     EncryptionMethod
	sshKeyPath string
	passphrase string
	aesKey     []byte
}

func NewEncryptionManager(method EncryptionMethod, sshKeyPath string) *EncryptionManager {
	return &EncryptionManager{
		method:     method,
		sshKeyPath: ExpandPath(sshKeyPath),
	}
}

// SetPassphrase sets the passphrase for decrypting the SSH key
func (e *EncryptionManager) SetPassphrase(passphrase string) {
	e.passphrase = passphrase
}

// Initialize loads the SSH key and derives the AES key. For encrypted keys a
// passphrase must have been set first.
func (e *EncryptionManager) Initialize() error {
	if e.method == EncryptionNone {
		return nil
	}

	encrypted, err := IsSSHKeyEncrypted(e.sshKeyPath)
	if err != nil {
		return fmt.Errorf("failed to check SSH key: %w", err)
	}
	if encrypted && e.passphrase == "" {
		return fmt.Errorf("SSH key is encrypted - passphrase required")
	}

	var signer ssh.Signer
	if encrypted {
		signer, err = loadSSHKeyWithPassphrase(e.sshKeyPath, e.passphrase)
	} else {
		signer, err = loadSSHKey(e.sshKeyPath)
	}
	if err != nil {
		return err
	}

	sig, err := signer.Sign(deterministicReader{}, []byte(keyDerivationChallenge))
	if err != nil {
		return fmt.Errorf("failed to sign key-derivation challenge: %w", err)
	}

	key := sha256.Sum256(sig.Blob)
	e.aesKey = key[:]
	return nil
}

// Encrypt seals plaintext with AES-256-GCM; the nonce is prepended.
func (e *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	if e.method == EncryptionNone {
		return plaintext, nil
	}
	if e.aesKey == nil {
		return nil, fmt.Errorf("encryption manager not initialized")
	}

	block, err := aes.NewCipher(e.aesKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens data produced by Encrypt.
func (e *EncryptionManager) Decrypt(data []byte) ([]byte, error) {
	if e.method == EncryptionNone {
		return data, nil
	}
	if e.aesKey == nil {
		return nil, fmt.Errorf("encryption manager not initialized")
	}

	block, err := aes.NewCipher(e.aesKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("encrypted data too short")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials (wrong SSH key?): %w", err)
	}
	return plaintext, nil
}

// deterministicReader replaces the signature entropy source so the same key
// always yields the same signature blob, and therefore the same AES key.
// RSA signatures via ssh.Signer are PKCS#1 v1.5 (deterministic); ed25519 is
// deterministic by construction.
type deterministicReader struct{}

func (deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// IsSSHKeyEncrypted checks if an SSH private key is passphrase-protected
// without attempting to decrypt it.
func IsSSHKeyEncrypted(keyPath string) (bool, error) {
	keyData, err := os.ReadFile(ExpandPath(keyPath))
	if err != nil {
		return false, fmt.Errorf("failed to read SSH key: %w", err)
	}

	_, err = ssh.ParsePrivateKey(keyData)
	if err == nil {
		return false, nil
	}

	if strings.Contains(err.Error(), "encrypted") ||
		strings.Contains(err.Error(), "passphrase") {
		return true, nil
	}

	return false, fmt.Errorf("invalid SSH key: %w", err)
}

func loadSSHKey(keyPath string) (ssh.Signer, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH key: %w", err)
	}
	return signer, nil
}

func loadSSHKeyWithPassphrase(keyPath, passphrase string) (ssh.Signer, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key: %w", err)
	}

	signer, err := ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt SSH key: %w", err)
	}
	return signer, nil
}
