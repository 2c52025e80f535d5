// Package ui provides terminal UI components for the ossm-cfg CLI.
//
// This package uses Bubble Tea components and Lipgloss to render polished
// terminal output for configuration commands. Unlike the interactive monitor
// TUI, these components follow a "run once and exit" pattern - they render
// output compellingly but don't require user interaction.
//
// # Architecture
//
// The UI package provides four main component types:
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Progress bar with step list showing real-time status
//   - Result: Success/failure boxes with styled information
//   - Trace: Raw CAN frame trace box for verbose mode
//
// These components are orchestrated by the Runner, which manages the
// header, progress, and result flow for multi-step bus operations such as
// applying a preset or reading the full assignment tables.
//
// # Usage Pattern
//
// Commands use this package by:
//
//  1. Creating a Runner with command metadata
//  2. Calling Run() with their operation function
//  3. The operation reports progress via a step callback
//  4. Runner handles all UI rendering automatically
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:      "Apply NTC Preset",
//	    Command:    "ossm-cfg ntc-preset bosch",
//	    Params:     map[string]string{"Interface": "can0"},
//	    TotalSteps: 2,
//	    Verbose:    verbose,
//	})
//
//	err := runner.Run(ctx, func(onStep ui.StepCallback) error {
//	    onStep(1, "Applying preset", ui.StepRunning, "")
//	    // ... talk to the controller ...
//	    onStep(1, "Applying preset", ui.StepComplete, "")
//	    return nil
//	})
//
// # Logging Integration
//
// This package expects logging to be controlled via the OSSM_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
//
// # Verbose Mode
//
// When --verbose is passed to commands, the Trace component displays the raw
// CAN frames exchanged with the controller in a styled box after the result.
// This is useful for debugging wiring, addressing, and timing issues.
package ui
