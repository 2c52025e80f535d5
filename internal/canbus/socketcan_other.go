//go:build !linux

package canbus

import "fmt"

// OpenSocketCAN is only available on Linux. On other platforms, use the
// WebSocket bridge to reach a Linux host with the CAN adapter.
func OpenSocketCAN(iface string) (Bus, error) {
	return nil, fmt.Errorf("SocketCAN is not available on this platform; use --bridge to connect through an ossm-bridge host")
}
