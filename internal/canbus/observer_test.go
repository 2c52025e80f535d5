package canbus

import (
	"testing"
	"time"
)

func TestObservedBusCallbacks(t *testing.T) {
	loop := NewLoopback()
	var sent, received []Frame
	bus := &ObservedBus{
		Bus:    loop,
		OnSend: func(f Frame) { sent = append(sent, f) },
		OnRecv: func(f Frame) { received = append(received, f) },
	}

	out := Frame{ID: 0x18FF0000, Extended: true, DLC: 8, Data: [8]byte{0x07, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}}
	if err := bus.Send(out); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(sent) != 1 || sent[0] != out {
		t.Errorf("OnSend frames = %+v, want [%+v]", sent, out)
	}

	in := Frame{ID: 0x18FF0195, Extended: true, DLC: 8, Data: [8]byte{0x07, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}}
	loop.Inject(in)
	frame, err := bus.Recv(time.Second)
	if err != nil || frame == nil {
		t.Fatalf("Recv() = %v, %v", frame, err)
	}
	if len(received) != 1 || received[0] != in {
		t.Errorf("OnRecv frames = %+v, want [%+v]", received, in)
	}
}

func TestObservedBusEmptyPollNotReported(t *testing.T) {
	loop := NewLoopback()
	calls := 0
	bus := &ObservedBus{
		Bus:    loop,
		OnRecv: func(Frame) { calls++ },
	}

	frame, err := bus.Recv(10 * time.Millisecond)
	if frame != nil || err != nil {
		t.Fatalf("Recv() = %v, %v, want nil, nil", frame, err)
	}
	if calls != 0 {
		t.Errorf("OnRecv called %d times on an empty poll, want 0", calls)
	}
}

func TestObservedBusSendErrorNotReported(t *testing.T) {
	loop := NewLoopback()
	_ = loop.Close()
	calls := 0
	bus := &ObservedBus{
		Bus:    loop,
		OnSend: func(Frame) { calls++ },
	}

	if err := bus.Send(Frame{ID: 0x18FF0000}); err != ErrBusClosed {
		t.Fatalf("Send() error = %v, want ErrBusClosed", err)
	}
	if calls != 0 {
		t.Errorf("OnSend called %d times on a failed send, want 0", calls)
	}
}

func TestObservedBusNilCallbacks(t *testing.T) {
	loop := NewLoopback()
	bus := &ObservedBus{Bus: loop}

	if err := bus.Send(Frame{ID: 0x18FF0000}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	loop.Inject(Frame{ID: 0x18FF0195})
	if _, err := bus.Recv(time.Second); err != nil {
		t.Fatalf("Recv() error = %v", err)
	}
}
