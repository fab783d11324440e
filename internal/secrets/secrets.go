// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory holds one secret: the filename is the key and
// the trimmed file contents are the value.
//
// Supported key files: sec-user-agent (the contact string EDGAR requires
// in the User-Agent header, e.g. "Example Corp admin@example.com").
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SECUserAgent names the file holding the EDGAR User-Agent contact.
const SECUserAgent = "sec-user-agent"

// Secrets maps key names to values.
type Secrets map[string]string

// Get returns override when it is non-empty and the stored secret for key
// otherwise. Flags and config values passed as override win over files.
func (s Secrets) Get(key, override string) string {
	if override != "" {
		return override
	}
	return s[key]
}

// Keys returns the loaded key names without their values.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty set. Unreadable files are logged at warn level and
// skipped.
func Load(dir string) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
