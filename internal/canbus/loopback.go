package canbus

import (
	"sync"
	"time"
)

// Loopback is an in-memory Bus. Frames queued with Inject appear on Recv;
// frames passed to Send are recorded for inspection. Used by tests and the
// bridge's dry-run mode.
type Loopback struct {
	mu     sync.Mutex
	rx     chan Frame
	sent   []Frame
	closed bool

	// OnSend, when set, is invoked synchronously for every Send. It lets a
	// test script responses to outgoing commands.
	OnSend func(Frame)
}

func NewLoopback() *Loopback {
	return &Loopback{rx: make(chan Frame, 64)}
}

// Inject queues a frame for delivery to the next Recv call.
func (l *Loopback) Inject(frame Frame) {
	l.rx <- frame
}

// Sent returns a copy of every frame passed to Send so far.
func (l *Loopback) Sent() []Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Frame, len(l.sent))
	copy(out, l.sent)
	return out
}

func (l *Loopback) Send(frame Frame) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrBusClosed
	}
	l.sent = append(l.sent, frame)
	cb := l.OnSend
	l.mu.Unlock()

	if cb != nil {
		cb(frame)
	}
	return nil
}

func (l *Loopback) Recv(timeout time.Duration) (*Frame, error) {
	select {
	case frame := <-l.rx:
		return &frame, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
