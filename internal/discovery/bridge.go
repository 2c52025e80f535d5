package discovery

import (
	"fmt"
	"time"
)

// Bridge represents a discovered CAN bridge on the network
type Bridge struct {
	// Name is the mDNS service instance name (e.g., "garage")
	Name string

	// Hostname is the mDNS hostname (e.g., "garage-pi.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.4.16")
	IP string

	// Port is the WebSocket port
	Port int

	// Interface is the SocketCAN interface the bridge relays (from the
	// "iface" TXT record, e.g. "can0")
	Interface string

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the bridge was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the bridge
func (b *Bridge) String() string {
	return fmt.Sprintf("CAN bridge %q (%s) at %s:%d", b.Name, b.Interface, b.IP, b.Port)
}

// Endpoint returns the host:port address of the bridge's WebSocket listener
func (b *Bridge) Endpoint() string {
	return fmt.Sprintf("%s:%d", b.IP, b.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Bridge) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
