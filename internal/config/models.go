package config

import "time"

// Registry represents the entire user configuration file.
// This stores user-defined metadata for controllers and application preferences.
type Registry struct {
	Version     int                    `yaml:"version"`
	Controllers map[string]*Controller `yaml:"controllers,omitempty"` // Keyed by endpoint ("can0", bridge host:port)
	Preferences *Preferences           `yaml:"preferences,omitempty"`
}

// Controller represents user-defined metadata for a single OSSM controller.
// This is keyed by the endpoint it was last reached on in the Registry.
type Controller struct {
	Nickname       string             `yaml:"nickname,omitempty"`  // User-friendly name
	LastSeen       time.Time          `yaml:"last_seen,omitempty"` // Last discovery/connection time
	TempInputs     map[int]*InputMeta `yaml:"temp_inputs,omitempty"`
	PressureInputs map[int]*InputMeta `yaml:"pressure_inputs,omitempty"`
}

// InputMeta represents user-defined metadata for a single sensor input.
// This is purely client-side information - the controller itself only stores
// SPN assignments, not labels.
type InputMeta struct {
	Label string `yaml:"label"`          // User-defined label (e.g., "Gearbox Oil")
	SPN   uint16 `yaml:"spn,omitempty"`  // Last known SPN assignment
	Icon  string `yaml:"icon,omitempty"` // Optional emoji/icon for display
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Interface       string `yaml:"interface"`        // Default SocketCAN interface
	Bridge          string `yaml:"bridge,omitempty"` // Default WebSocket bridge endpoint (host:port)
	ResponseTimeout int    `yaml:"response_timeout"` // Command response timeout in milliseconds
	AutoDiscover    bool   `yaml:"auto_discover"`    // Enable automatic mDNS bridge discovery on startup
	DiscoverTimeout int    `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Controllers: make(map[string]*Controller),
		Preferences: &Preferences{
			Interface:       "can0",
			ResponseTimeout: 1000,
			AutoDiscover:    true,
			DiscoverTimeout: 10,
		},
	}
}

// GetController retrieves controller metadata by endpoint.
// Returns nil if the controller doesn't exist in the registry.
func (r *Registry) GetController(endpoint string) *Controller {
	return r.Controllers[endpoint]
}

// EnsureController ensures a controller entry exists in the registry.
// If the controller doesn't exist, creates a new entry with default values.
// Returns the controller entry (existing or newly created).
func (r *Registry) EnsureController(endpoint string) *Controller {
	if r.Controllers == nil {
		r.Controllers = make(map[string]*Controller)
	}

	if ctrl, exists := r.Controllers[endpoint]; exists {
		return ctrl
	}

	ctrl := &Controller{
		TempInputs:     make(map[int]*InputMeta),
		PressureInputs: make(map[int]*InputMeta),
	}
	r.Controllers[endpoint] = ctrl
	return ctrl
}

// UpdateControllerLastSeen updates the last seen timestamp for a controller.
func (r *Registry) UpdateControllerLastSeen(endpoint string) {
	ctrl := r.EnsureController(endpoint)
	ctrl.LastSeen = time.Now()
}

// SetTempInputLabel sets or updates metadata for a temperature input.
func (r *Registry) SetTempInputLabel(endpoint string, input int, label string, spn uint16) {
	ctrl := r.EnsureController(endpoint)

	if ctrl.TempInputs == nil {
		ctrl.TempInputs = make(map[int]*InputMeta)
	}

	ctrl.TempInputs[input] = &InputMeta{
		Label: label,
		SPN:   spn,
	}
}

// SetPressureInputLabel sets or updates metadata for a pressure input.
func (r *Registry) SetPressureInputLabel(endpoint string, input int, label string, spn uint16) {
	ctrl := r.EnsureController(endpoint)

	if ctrl.PressureInputs == nil {
		ctrl.PressureInputs = make(map[int]*InputMeta)
	}

	ctrl.PressureInputs[input] = &InputMeta{
		Label: label,
		SPN:   spn,
	}
}

// SetControllerNickname sets a user-friendly nickname for a controller.
func (r *Registry) SetControllerNickname(endpoint, nickname string) {
	ctrl := r.EnsureController(endpoint)
	ctrl.Nickname = nickname
}
