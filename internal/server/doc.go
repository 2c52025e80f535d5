// Package server implements the ossm-bridge daemon: a WebSocket relay that
// exposes a SocketCAN interface to clients on machines without CAN hardware.
//
// The bridge accepts WebSocket connections on /can and speaks the 14-byte
// binary frame format from the canbus package. It is a pure relay: frames
// from the CAN interface are broadcast to every client, and frames from any
// client are written to the interface unchanged. Multiple clients can share
// one bus, so a monitor session and a configuration session can run side by
// side.
//
// Unless disabled, the bridge advertises itself via mDNS as an
// "_ossm-can._tcp" service with the relayed interface name in a TXT record,
// so 'ossm-cfg scan' can find it without manual addressing.
//
// Typical startup:
//
//	srv, err := server.New(&server.Config{
//	    Port:      8192,
//	    Interface: "can0",
//	    Name:      "garage",
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start() // blocks until SIGINT/SIGTERM
package server
