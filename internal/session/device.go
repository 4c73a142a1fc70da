package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const deviceFileName = "device"

// DeviceID returns the stable per-install device identifier, generating
// and persisting one on first use. The backend uses it to correlate
// push registrations and sessions across logins.
func DeviceID(dir string) (string, error) {
	path := filepath.Join(dir, deviceFileName)
	if raw, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(raw)); id != "" {
			return id, nil
		}
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", err
	}
	return id, nil
}
