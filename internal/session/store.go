package session

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
)

// TokenStore persists the opaque bearer credential between runs.
type TokenStore interface {
	// Save durably persists the token, overwriting any prior value.
	Save(token string) error
	// Load returns the previously saved token, or "" when absent.
	// Storage failures read as absent: the safe direction is logged out.
	Load() string
	// Clear removes the persisted token. Idempotent.
	Clear() error
}

const (
	tokenFileName = "token"
	keyFileName   = "token.key"

	keySize   = 32
	nonceSize = 24
)

// FileTokenStore keeps the token sealed with nacl/secretbox under a
// per-install random key. Both files live in the store directory with
// owner-only permissions; this is the client-side stand-in for the
// platform secure storage the mobile OS would provide.
type FileTokenStore struct {
	dir string
}

// NewFileTokenStore creates a store rooted at dir, creating it if needed.
func NewFileTokenStore(dir string) (*FileTokenStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating token store directory: %w", err)
	}
	return &FileTokenStore{dir: dir}, nil
}

func (s *FileTokenStore) Save(token string) error {
	key, err := s.loadOrCreateKey()
	if err != nil {
		return fmt.Errorf("preparing sealing key: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(token), &nonce, key)

	if err := os.WriteFile(s.tokenPath(), sealed, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Load() string {
	key, err := s.loadKey()
	if err != nil {
		return ""
	}
	sealed, err := os.ReadFile(s.tokenPath())
	if err != nil || len(sealed) < nonceSize {
		return ""
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	token, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		// Tampered or key mismatch. Treat as absent.
		return ""
	}
	return string(token)
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.tokenPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) tokenPath() string {
	return filepath.Join(s.dir, tokenFileName)
}

func (s *FileTokenStore) keyPath() string {
	return filepath.Join(s.dir, keyFileName)
}

func (s *FileTokenStore) loadKey() (*[keySize]byte, error) {
	raw, err := os.ReadFile(s.keyPath())
	if err != nil {
		return nil, err
	}
	if len(raw) != keySize {
		return nil, fmt.Errorf("sealing key has unexpected size %d", len(raw))
	}
	var key [keySize]byte
	copy(key[:], raw)
	return &key, nil
}

func (s *FileTokenStore) loadOrCreateKey() (*[keySize]byte, error) {
	if key, err := s.loadKey(); err == nil {
		return key, nil
	}
	var key [keySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.keyPath(), key[:], 0o600); err != nil {
		return nil, err
	}
	return &key, nil
}
