package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// useTempConfigDir points the config dir at a per-test directory and
// resets the lazily loaded global registry.
func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("LOCALAPPDATA", dir)
	t.Cleanup(func() {
		if _, err := ReloadRegistry(); err != nil {
			t.Logf("ReloadRegistry during cleanup: %v", err)
		}
	})
	return dir
}

// TestGetConfigPath tests the inventory file location
func TestGetConfigPath(t *testing.T) {
	useTempConfigDir(t)

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "devices.yaml" {
		t.Errorf("GetConfigPath() should end with 'devices.yaml', got: %v", configPath)
	}
	if !strings.Contains(configPath, "exosctl") {
		t.Errorf("GetConfigPath() = %v, should contain 'exosctl'", configPath)
	}
}

// TestNewRegistry tests default values
func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Preferences == nil || reg.Preferences.DefaultUsername != "admin" {
		t.Errorf("NewRegistry().Preferences = %+v, want admin default username", reg.Preferences)
	}
}

// TestRegistrySaveAndReload tests the round trip through disk
func TestRegistrySaveAndReload(t *testing.T) {
	useTempConfigDir(t)

	reg, err := ReloadRegistry()
	if err != nil {
		t.Fatalf("ReloadRegistry() error = %v", err)
	}

	reg.SetDevice("core-sw-01", &Device{
		Host:     "10.0.0.10",
		Port:     22,
		Username: "admin",
		Rules:    "/etc/exosctl/rules-16.2.yaml",
	})
	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := ReloadRegistry()
	if err != nil {
		t.Fatalf("ReloadRegistry() after save error = %v", err)
	}

	device := reloaded.GetDevice("core-sw-01")
	if device == nil {
		t.Fatal("saved device not found after reload")
	}
	if device.Host != "10.0.0.10" || device.Username != "admin" {
		t.Errorf("reloaded device = %+v", device)
	}
	if device.Rules != "/etc/exosctl/rules-16.2.yaml" {
		t.Errorf("reloaded rules path = %q", device.Rules)
	}
}

// TestRegistryMissingFile tests that a missing inventory yields defaults
func TestRegistryMissingFile(t *testing.T) {
	useTempConfigDir(t)

	reg, err := ReloadRegistry()
	if err != nil {
		t.Fatalf("ReloadRegistry() error = %v", err)
	}
	if len(reg.Devices) != 0 {
		t.Errorf("fresh registry has %d devices, want 0", len(reg.Devices))
	}
}

// TestRegistryVersionCheck tests rejection of unknown file versions
func TestRegistryVersionCheck(t *testing.T) {
	useTempConfigDir(t)

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, []byte("version: 99\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := ReloadRegistry(); err == nil {
		t.Error("expected an error for an unsupported config version")
	}
}

// TestRegistryNeverStoresPasswords tests the on-disk security contract
func TestRegistryNeverStoresPasswords(t *testing.T) {
	useTempConfigDir(t)

	reg, err := ReloadRegistry()
	if err != nil {
		t.Fatal(err)
	}
	reg.SetDevice("edge-sw-02", &Device{Host: "10.0.0.11"})
	if err := reg.Save(); err != nil {
		t.Fatal(err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(strings.ToLower(string(data)), "password") &&
		!strings.Contains(string(data), "passwords are NEVER stored") {
		t.Errorf("inventory file should not contain password fields:\n%s", data)
	}
}

// TestRemoveDevice tests inventory removal
func TestRemoveDevice(t *testing.T) {
	reg := NewRegistry()
	reg.SetDevice("a", &Device{Host: "10.0.0.1"})

	if !reg.RemoveDevice("a") {
		t.Error("RemoveDevice should report an existing device")
	}
	if reg.RemoveDevice("a") {
		t.Error("RemoveDevice should report a missing device")
	}
}
