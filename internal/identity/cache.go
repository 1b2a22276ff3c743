// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/mohanraghava-higherself/jetayuV1/internal/util"
)

// Encryption parameters for the session cache at rest.
// AES-256-GCM authenticated encryption with PBKDF2-SHA-256 key derivation.
const (
	// encryptedPrefix marks the cache file as encrypted
	// (format: ENC:base64(nonce|ciphertext|tag)).
	encryptedPrefix = "ENC:"

	// nonceSize is the size of the nonce/IV for AES-GCM (96 bits).
	nonceSize = 12

	// keySize is the size of the AES-256 key (256 bits).
	keySize = 32

	// saltSize is the size of the salt for key derivation.
	saltSize = 32

	// pbkdf2Iterations follows the OWASP 2023 recommendation of 600,000+
	// for PBKDF2-SHA-256.
	pbkdf2Iterations = 600000

	sessionFileName = "session.enc"
	secretFileName  = "session.key"
	saltFileName    = "session.salt"
)

var (
	// ErrCacheMiss indicates no cached session exists.
	ErrCacheMiss = errors.New("no cached session")

	// ErrCacheCorrupt indicates the cache failed authentication, either
	// tampered with or encrypted under a lost key.
	ErrCacheCorrupt = errors.New("cached session corrupt or tampered")
)

// zeroBytes securely zeros sensitive byte slices.
// SECURITY: Zero key material to prevent memory disclosure via crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// SessionCache persists the identity session to disk, encrypted at rest.
//
// The cache key is derived with PBKDF2 from a random local secret stored
// next to the cache with 0600 permissions. This keeps the token opaque to
// casual inspection and backup tooling; an attacker with full read access
// to the directory is outside the threat model of a local cache.
type SessionCache struct {
	mu  sync.Mutex
	dir string
}

// NewSessionCache creates a session cache rooted at dir. An empty dir
// defaults to ~/.jetayu.
func NewSessionCache(dir string) (*SessionCache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".jetayu")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &SessionCache{dir: dir}, nil
}

// Save encrypts and persists the session.
func (c *SessionCache) Save(session *Session) error {
	if session == nil {
		return errors.New("nil session")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	aead, err := c.loadCipher(true)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	defer zeroBytes(plaintext)

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nonce, nonce, plaintext, nil)
	output := []byte(encryptedPrefix + base64.StdEncoding.EncodeToString(ciphertext))

	// RELIABILITY: Atomic write with fsync prevents a torn cache on crash.
	if err := util.AtomicWriteFile(filepath.Join(c.dir, sessionFileName), output, 0600); err != nil {
		return fmt.Errorf("failed to write session cache: %w", err)
	}
	return nil
}

// Load decrypts and returns the cached session.
func (c *SessionCache) Load() (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(c.dir, sessionFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read session cache: %w", err)
	}

	content := string(data)
	if !strings.HasPrefix(content, encryptedPrefix) {
		return nil, ErrCacheCorrupt
	}

	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(content, encryptedPrefix))
	if err != nil {
		return nil, ErrCacheCorrupt
	}
	if len(ciphertext) < nonceSize {
		return nil, ErrCacheCorrupt
	}

	aead, err := c.loadCipher(false)
	if err != nil {
		return nil, err
	}

	nonce := ciphertext[:nonceSize]
	plaintext, err := aead.Open(nil, nonce, ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, ErrCacheCorrupt
	}
	defer zeroBytes(plaintext)

	var session Session
	if err := json.Unmarshal(plaintext, &session); err != nil {
		return nil, ErrCacheCorrupt
	}
	return &session, nil
}

// Clear removes the cached session. The key material stays so a later
// Save reuses it.
func (c *SessionCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(filepath.Join(c.dir, sessionFileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// loadCipher derives the AES-GCM cipher from the local secret and salt,
// creating both on first use when create is true.
func (c *SessionCache) loadCipher(create bool) (cipher.AEAD, error) {
	secret, err := c.loadOrCreateMaterial(secretFileName, create)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(secret)

	salt, err := c.loadOrCreateMaterial(saltFileName, create)
	if err != nil {
		return nil, err
	}

	key := pbkdf2.Key(secret, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}
	return aead, nil
}

// loadOrCreateMaterial reads a key-material file, generating it with
// secure randomness when absent and create is true.
func (c *SessionCache) loadOrCreateMaterial(name string, create bool) ([]byte, error) {
	path := filepath.Join(c.dir, name)
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != saltSize {
			return nil, ErrCacheCorrupt
		}
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if !create {
		return nil, ErrCacheMiss
	}

	material := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, material); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	if err := util.AtomicWriteFile(path, material, 0600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}
	return material, nil
}
