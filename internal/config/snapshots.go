package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Pre-commit running-config snapshots, persisted so that rollback works
// from a fresh CLI invocation. One snapshot per device; each commit
// overwrites it and a successful rollback consumes it, mirroring the
// session's single-level contract.

const snapshotsDir = "snapshots"

// SnapshotPath returns the snapshot file path for a device name.
func SnapshotPath(device string) (string, error) {
	if device == "" {
		return "", fmt.Errorf("device name is required for snapshot storage")
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, snapshotsDir, device+".cfg"), nil
}

// SaveSnapshot writes the pre-commit running config for a device,
// replacing any previous snapshot.
func SaveSnapshot(device string, lines []string) error {
	path, err := SnapshotPath(device)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data := strings.Join(lines, "\n")
	if data != "" {
		data += "\n"
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(data), 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the persisted snapshot for a device. Returns
// os.ErrNotExist (wrapped) when no snapshot has been saved.
func LoadSnapshot(device string) ([]string, error) {
	path, err := SnapshotPath(device)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no snapshot for device %s: %w", device, err)
	}

	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}

// ClearSnapshot removes a device's snapshot. Missing snapshots are not an
// error.
func ClearSnapshot(device string) error {
	path, err := SnapshotPath(device)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}
	return nil
}

// HasSnapshot reports whether a persisted snapshot exists for the device.
func HasSnapshot(device string) bool {
	path, err := SnapshotPath(device)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
