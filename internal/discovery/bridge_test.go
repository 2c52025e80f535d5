package discovery

import (
	"testing"
	"time"
)

func TestBridge_String(t *testing.T) {
	bridge := &Bridge{
		Name:      "garage",
		Hostname:  "garage-pi.local.",
		IP:        "192.168.4.16",
		Port:      8192,
		Interface: "can0",
	}

	expected := `CAN bridge "garage" (can0) at 192.168.4.16:8192`
	if bridge.String() != expected {
		t.Errorf("Bridge.String() = %v, want %v", bridge.String(), expected)
	}
}

func TestBridge_Endpoint(t *testing.T) {
	tests := []struct {
		name     string
		bridge   *Bridge
		expected string
	}{
		{
			name: "default port",
			bridge: &Bridge{
				IP:   "192.168.4.16",
				Port: 8192,
			},
			expected: "192.168.4.16:8192",
		},
		{
			name: "custom port",
			bridge: &Bridge{
				IP:   "10.0.0.5",
				Port: 9000,
			},
			expected: "10.0.0.5:9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bridge.Endpoint(); got != tt.expected {
				t.Errorf("Bridge.Endpoint() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBridge_GetMetadata(t *testing.T) {
	bridge := &Bridge{
		Metadata: map[string]string{
			"iface":   "can0",
			"version": "1.0",
		},
	}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "existing key",
			key:      "iface",
			expected: "can0",
		},
		{
			name:     "another existing key",
			key:      "version",
			expected: "1.0",
		},
		{
			name:     "non-existent key",
			key:      "missing",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bridge.GetMetadata(tt.key); got != tt.expected {
				t.Errorf("Bridge.GetMetadata(%v) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestBridge_GetMetadata_NilMap(t *testing.T) {
	bridge := &Bridge{
		Metadata: nil,
	}

	if got := bridge.GetMetadata("anything"); got != "" {
		t.Errorf("Bridge.GetMetadata() with nil map = %v, want empty string", got)
	}
}

func TestBridge_DiscoveredAt(t *testing.T) {
	now := time.Now()
	bridge := &Bridge{
		Name:         "garage",
		DiscoveredAt: now,
	}

	if bridge.DiscoveredAt != now {
		t.Errorf("Bridge.DiscoveredAt = %v, want %v", bridge.DiscoveredAt, now)
	}
}
