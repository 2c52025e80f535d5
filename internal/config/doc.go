// Package config provides user configuration management for the ossmcfg tools.
//
// This package manages a YAML-based configuration file that stores user-defined
// metadata for OSSM controllers, including nicknames, sensor input labels, and
// application preferences. The configuration follows OS-specific conventions for
// storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/ossmcfg/config.yaml or $HOME/.config/ossmcfg/config.yaml
//   - macOS: $HOME/.config/ossmcfg/config.yaml
//   - Windows: %LOCALAPPDATA%\ossmcfg\config.yaml
//
// # What Lives Here
//
// Only client-side metadata. The authoritative sensor configuration (SPN
// assignments, calibration, presets) lives on the controller itself and is
// read and written over the CAN bus.
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Label a temperature input
//	registry.SetTempInputLabel("can0", 1, "Gearbox Oil", 177)
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
