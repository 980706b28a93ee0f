package config

import "time"

// Registry represents the entire user configuration file.
// It stores the device inventory and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by user-chosen device name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents one EXOS switch in the inventory.
type Device struct {
	Host     string    `yaml:"host"`                // IP or FQDN
	Port     int       `yaml:"port,omitempty"`      // SSH port (default 22)
	Username string    `yaml:"username,omitempty"`  // Login user; falls back to preferences
	Rules    string    `yaml:"rules,omitempty"`     // Path to a firmware-specific rule file
	LastUsed time.Time `yaml:"last_used,omitempty"` // Last successful connection
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultUsername string `yaml:"default_username"`          // Used when a device has no username
	ConnectTimeout  int    `yaml:"connect_timeout,omitempty"` // SSH dial/command timeout in seconds
	// Password is NEVER stored in the config file; it is always prompted
	// or passed on the command line.
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			DefaultUsername: "admin",
			ConnectTimeout:  60,
		},
	}
}

// GetDevice retrieves a device by name. Returns nil if the device doesn't
// exist in the registry.
func (r *Registry) GetDevice(name string) *Device {
	return r.Devices[name]
}

// SetDevice adds or replaces a device entry.
func (r *Registry) SetDevice(name string, device *Device) {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	r.Devices[name] = device
}

// RemoveDevice deletes a device entry. Returns true if it existed.
func (r *Registry) RemoveDevice(name string) bool {
	if _, ok := r.Devices[name]; !ok {
		return false
	}
	delete(r.Devices, name)
	return true
}

// DeviceNames returns the inventory names in unspecified order.
func (r *Registry) DeviceNames() []string {
	names := make([]string, 0, len(r.Devices))
	for name := range r.Devices {
		names = append(names, name)
	}
	return names
}
