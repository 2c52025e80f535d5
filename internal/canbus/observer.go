package canbus

import "time"

// ObservedBus wraps a Bus and invokes callbacks for every frame that
// passes through it. The CLI uses it to feed the --verbose frame trace;
// callbacks run synchronously on the caller's goroutine.
type ObservedBus struct {
	Bus
	OnSend func(Frame) // invoked after a successful Send
	OnRecv func(Frame) // invoked for every received frame, not for empty polls
}

func (o *ObservedBus) Send(frame Frame) error {
	if err := o.Bus.Send(frame); err != nil {
		return err
	}
	if o.OnSend != nil {
		o.OnSend(frame)
	}
	return nil
}

func (o *ObservedBus) Recv(timeout time.Duration) (*Frame, error) {
	frame, err := o.Bus.Recv(timeout)
	if frame != nil && err == nil && o.OnRecv != nil {
		o.OnRecv(*frame)
	}
	return frame, err
}
