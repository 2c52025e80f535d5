// Package monitor implements the live telemetry dashboard TUI.
//
// The monitor listens to the controller's periodic J1939 broadcasts and
// renders decoded temperatures, pressures, and humidity in a full-screen
// Bubble Tea view. It is read-only: no frames are sent, so it is safe to run
// alongside other bus consumers.
//
// # Architecture
//
// A reader goroutine drains the CAN bus and pushes frames into a channel.
// The Bubble Tea model consumes that channel one frame per Update cycle via
// a self-rescheduling command, folds each frame into the sensor state, and
// re-renders. A 500ms ticker marks readings stale when broadcasts stop.
//
// # Key Bindings
//
//   - p / space: pause the display (frames keep arriving but are dropped)
//   - ?: toggle the expanded help view
//   - q / esc / ctrl+c: quit
package monitor
