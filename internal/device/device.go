// ABOUTME: Persistent device identity for this installation
// ABOUTME: Reads the id file or generates and stores a fresh device id

// Package device keeps the id that binds this installation to its user row.
package device

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefix starts every generated device id.
const Prefix = "device_"

// NewID generates a device id of the form device_<unix millis>_<random>.
func NewID(now time.Time) string {
	frag := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return fmt.Sprintf("%s%d_%s", Prefix, now.UnixMilli(), frag)
}

// LoadOrCreate returns the device id stored at path. A missing or blank file
// gets a new id written to it, so later calls return the same value.
func LoadOrCreate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("reading device id: %w", err)
	}

	id := NewID(time.Now())
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("creating device id directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("writing device id: %w", err)
	}
	return id, nil
}
