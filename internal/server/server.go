package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/discovery"
	"github.com/ossmdev/ossmcfg/internal/logging"
)

// Config holds the bridge configuration
type Config struct {
	Host      string // Listen address (empty = all interfaces)
	Port      int    // WebSocket port
	Interface string // SocketCAN interface to relay
	Name      string // mDNS instance name (default: hostname)
	LogLevel  string
	NoMDNS    bool // Disable mDNS advertisement
}

// Server relays a SocketCAN interface over WebSocket.
//
// Every frame read from the CAN interface is fanned out to all connected
// clients; frames received from any client are written to the interface.
// The bridge itself never interprets the frames.
type Server struct {
	config   *Config
	bus      canbus.Bus
	listener net.Listener
	httpSrv  *http.Server
	mdns     *zeroconf.Server
	mu       sync.Mutex
	clients  map[*client]struct{}
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates a new bridge server
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if config.Port == 0 {
		config.Port = discovery.DefaultPort
	}
	if config.Interface == "" {
		config.Interface = "can0"
	}
	if config.Name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "ossm-bridge"
		}
		config.Name = hostname
	}

	return &Server{
		config:  config,
		clients: make(map[*client]struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Start opens the CAN interface and serves until a shutdown signal
func (s *Server) Start() error {
	if s.bus == nil {
		bus, err := canbus.OpenSocketCAN(s.config.Interface)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", s.config.Interface, err)
		}
		s.bus = bus
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	logging.Info("Starting OSSM CAN bridge",
		zap.String("addr", addr),
		zap.String("interface", s.config.Interface),
		zap.String("name", s.config.Name),
	)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc(canbus.BridgePath, s.handleCAN)
	s.httpSrv = &http.Server{Handler: mux}

	if !s.config.NoMDNS {
		if err := s.registerMDNS(); err != nil {
			// Discovery is a convenience; clients can still connect directly
			logging.Warn("mDNS registration failed", zap.Error(err))
		}
	}

	s.wg.Add(1)
	go s.broadcastLoop()

	logging.Info("Bridge listening for clients", zap.String("addr", addr))

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpSrv.Serve(listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping bridge...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// registerMDNS advertises the bridge as "_ossm-can._tcp" with the relayed
// interface name in a TXT record.
func (s *Server) registerMDNS() error {
	mdns, err := zeroconf.Register(
		s.config.Name,
		discovery.ServiceType,
		discovery.ServiceDomain,
		s.config.Port,
		[]string{"iface=" + s.config.Interface},
		nil,
	)
	if err != nil {
		return err
	}
	s.mdns = mdns

	logging.Info("Advertising bridge via mDNS",
		zap.String("instance", s.config.Name),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", s.config.Port),
	)
	return nil
}

// broadcastLoop reads frames from the CAN interface and fans them out to
// every connected client. A client with a full send queue drops frames
// rather than stalling the bus reader.
func (s *Server) broadcastLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		frame, err := s.bus.Recv(500 * time.Millisecond)
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			logging.Error("CAN interface read failed, stopping broadcast", zap.Error(err))
			return
		}
		if frame == nil {
			continue
		}

		payload := canbus.MarshalWire(*frame)

		s.mu.Lock()
		for c := range s.clients {
			select {
			case c.send <- payload:
			default:
				c.dropped++
			}
		}
		s.mu.Unlock()
	}
}

// addClient registers a client for frame fan-out
func (s *Server) addClient(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	count := len(s.clients)
	s.mu.Unlock()

	logging.Info("Client connected",
		zap.String("remote_addr", c.remoteAddr),
		zap.Int("active_clients", count),
	)
}

// removeClient drops a client from the fan-out set
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	count := len(s.clients)
	s.mu.Unlock()

	if c.dropped > 0 {
		logging.Warn("Client fell behind, frames dropped",
			zap.String("remote_addr", c.remoteAddr),
			zap.Uint64("dropped", c.dropped),
		)
	}
	logging.Info("Client disconnected",
		zap.String("remote_addr", c.remoteAddr),
		zap.Int("active_clients", count),
	)
}

// ActiveClients returns the number of connected clients
func (s *Server) ActiveClients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Shutdown gracefully stops the bridge
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down bridge...")

	close(s.done)

	if s.mdns != nil {
		s.mdns.Shutdown()
	}

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			logging.Error("Error shutting down HTTP server", zap.Error(err))
		}
	}

	// Close all active clients
	s.mu.Lock()
	for c := range s.clients {
		c.close()
	}
	s.mu.Unlock()

	if s.bus != nil {
		_ = s.bus.Close()
	}

	// Wait for goroutines with timeout
	doneCh := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
		logging.Info("All clients closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return nil
}
