// Package discovery provides mDNS-based discovery of ossm-bridge daemons.
//
// This package implements multicast DNS (mDNS) service discovery to automatically
// locate CAN bridges on the local network. Bridges advertise themselves using
// the "_ossm-can._tcp" service type, so a laptop without a CAN adapter can find
// a bridge and talk to the controller over WebSocket.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for "_ossm-can._tcp" service advertisements
//  3. Collects bridge information (instance name, IP, port, relayed interface)
//  4. Returns a list of discovered bridges after the timeout period
//
// # Usage Example
//
//	// Discover bridges with 10-second timeout
//	bridges, err := discovery.ScanForBridges(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, bridge := range bridges {
//	    fmt.Printf("Found: %s relaying %s at %s\n",
//	        bridge.Name, bridge.Interface, bridge.Endpoint())
//	}
//
// # TXT Records
//
// Bridges publish the SocketCAN interface they relay in the "iface" TXT
// record. Other records are preserved in the Bridge's Metadata map.
//
// # Network Requirements
//
//   - Requires multicast support on the network interface
//   - Bridges must be on the same local network segment
//   - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can run
// simultaneously without interference.
package discovery
