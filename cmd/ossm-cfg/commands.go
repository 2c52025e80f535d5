package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/commander"
	"github.com/ossmdev/ossmcfg/internal/config"
	"github.com/ossmdev/ossmcfg/internal/discovery"
	"github.com/ossmdev/ossmcfg/internal/monitor"
	"github.com/ossmdev/ossmcfg/internal/protocol"
	"github.com/ossmdev/ossmcfg/internal/ui"
)

// Command flags
var (
	canInterface string
	bridgeAddr   string
	timeoutMS    int
	verbose      bool
	outputFormat string
	scanTimeout  int
	skipConfirm  bool
)

func init() {
	// Common flags for bus commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&canInterface, "interface", "", "SocketCAN interface (default from config, falls back to can0)")
	rootCmd.PersistentFlags().StringVar(&bridgeAddr, "bridge", "", "ossm-bridge endpoint (host:port, skips SocketCAN)")
	rootCmd.PersistentFlags().IntVar(&timeoutMS, "timeout", 0, "Response timeout in milliseconds (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show the raw CAN frame trace")

	// Add subcommands directly to root
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(unassignCmd)
	rootCmd.AddCommand(ntcPresetCmd)
	rootCmd.AddCommand(pressurePresetCmd)
	rootCmd.AddCommand(tcTypeCmd)
	rootCmd.AddCommand(ntcParamCmd)
	rootCmd.AddCommand(pressureRangeCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(resetCmd)
}

// endpoint returns the resolved bus endpoint for registry bookkeeping
func endpoint() string {
	if bridgeAddr != "" {
		return bridgeAddr
	}
	if canInterface != "" {
		return canInterface
	}
	if env := os.Getenv(interfaceEnvVar); env != "" {
		return env
	}
	if reg, err := config.LoadRegistry(); err == nil && reg.Preferences != nil {
		if reg.Preferences.Bridge != "" {
			return reg.Preferences.Bridge
		}
		if reg.Preferences.Interface != "" {
			return reg.Preferences.Interface
		}
	}
	return "can0"
}

// interfaceEnvVar overrides the SocketCAN interface when no flag is given
const interfaceEnvVar = "OSSM_CAN_INTERFACE"

// openBus connects to the controller's bus: an explicit --bridge wins, then
// an explicit --interface, then OSSM_CAN_INTERFACE, then the configured
// preferences.
func openBus() (canbus.Bus, error) {
	if bridgeAddr != "" {
		return canbus.DialBridge(bridgeAddr)
	}
	if canInterface != "" {
		return openInterface(canInterface)
	}
	if env := os.Getenv(interfaceEnvVar); env != "" {
		return openInterface(env)
	}

	reg, err := config.LoadRegistry()
	if err == nil && reg.Preferences != nil {
		if reg.Preferences.Bridge != "" {
			return canbus.DialBridge(reg.Preferences.Bridge)
		}
		if reg.Preferences.Interface != "" {
			return openInterface(reg.Preferences.Interface)
		}
	}
	return openInterface("can0")
}

// openInterface opens a SocketCAN interface and discards frames that
// queued up before we attached, so the first exchange does not wade
// through stale broadcast traffic.
func openInterface(iface string) (canbus.Bus, error) {
	bus, err := canbus.OpenSocketCAN(iface)
	if err != nil {
		return nil, err
	}
	var b canbus.Bus = bus
	drainStale(b)
	return b, nil
}

func drainStale(bus canbus.Bus) {
	if f, ok := bus.(interface{ Flush() }); ok {
		f.Flush()
	}
}

// traceBus feeds every frame through the trace so --verbose can show the
// raw exchange.
func traceBus(bus canbus.Bus, trace *ui.Trace) canbus.Bus {
	return &canbus.ObservedBus{
		Bus:    bus,
		OnSend: func(f canbus.Frame) { trace.AddTX(f.ID, f.Payload()) },
		OnRecv: func(f canbus.Frame) { trace.AddRX(f.ID, f.Payload()) },
	}
}

// newTracedCommander builds the commander, recording frames for --verbose.
// The returned func prints the recorded trace (a no-op when not verbose).
func newTracedCommander(bus canbus.Bus) (*commander.Commander, func()) {
	if !verbose {
		return newCommander(bus), func() {}
	}
	trace := ui.NewTrace()
	return newCommander(traceBus(bus, trace)), func() { ui.PrintTrace(trace) }
}

// newCommander wraps the bus with the configured response timeout
func newCommander(bus canbus.Bus) *commander.Commander {
	timeout := time.Duration(timeoutMS) * time.Millisecond
	if timeoutMS <= 0 {
		if reg, err := config.LoadRegistry(); err == nil && reg.Preferences != nil && reg.Preferences.ResponseTimeout > 0 {
			timeout = time.Duration(reg.Preferences.ResponseTimeout) * time.Millisecond
		} else {
			timeout = protocol.DefaultResponseTimeout
		}
	}
	return commander.New(bus, commander.WithTimeout(timeout))
}

// checkResult folds the (device error code, transport error) pair from a
// command into a single error for cobra.
func checkResult(action string, code protocol.ErrorCode, err error) error {
	if err != nil {
		if commander.IsTimeout(err) {
			return fmt.Errorf("%s: no response from controller: %w", action, err)
		}
		return fmt.Errorf("%s: %w", action, err)
	}
	if !code.OK() {
		return fmt.Errorf("%s: controller rejected command: %s", action, code)
	}
	return nil
}

// --- scan ---

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for ossm-bridge relays on the network",
	Long: `Scan for ossm-bridge daemons using mDNS/DNS-SD discovery.

This command listens for "_ossm-can._tcp" broadcasts and displays all
discovered bridges with their endpoints and relayed CAN interfaces. Use a
bridge when this machine has no CAN adapter of its own.`,
	Example: `  # Scan for 10 seconds (default)
  ossm-cfg scan

  # Quick 3-second scan
  ossm-cfg scan --scan-timeout 3`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for ossm-bridge relays (timeout: %ds)...\n\n", scanTimeout)

	bridges, err := discovery.ScanForBridges(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(bridges) == 0 {
		fmt.Println("No bridges found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure an ossm-bridge daemon is running on the CAN host")
		fmt.Println("  - Check both machines are on the same network segment")
		fmt.Println("  - Verify the firewall allows mDNS (UDP 5353)")
		fmt.Println("  - Use --bridge host:port to connect directly if discovery fails")
		return nil
	}

	fmt.Printf("Found %d bridge(s):\n\n", len(bridges))

	for i, bridge := range bridges {
		fmt.Printf("%d. %s\n", i+1, bridge.Name)
		fmt.Printf("   Endpoint:  %s\n", bridge.Endpoint())
		if bridge.Interface != "" {
			fmt.Printf("   Interface: %s\n", bridge.Interface)
		}
		fmt.Println()
	}

	fmt.Println("Use 'ossm-cfg show --bridge <endpoint>' to read the controller configuration")

	return nil
}

// --- show ---

// shownConfig is the JSON shape for 'show --format json'
type shownConfig struct {
	TempCount     uint8    `json:"temp_count"`
	PressureCount uint8    `json:"pressure_count"`
	EGTEnabled    bool     `json:"egt_enabled"`
	BME280Enabled bool     `json:"bme280_enabled"`
	TempSPNs      []uint16 `json:"temp_spns"`
	PressureSPNs  []uint16 `json:"pressure_spns"`
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show controller sensor configuration",
	Long: `Read and display the controller's current sensor configuration.

This queries input counts and feature flags, then reads both SPN assignment
tables frame by frame. A zero SPN means the input is disabled.`,
	Example: `  # Show config over the default interface
  ossm-cfg show

  # Show config through a bridge
  ossm-cfg show --bridge garage.local:8192

  # JSON output for scripting
  ossm-cfg show --format json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	c, showTrace := newTracedCommander(bus)
	defer showTrace()

	code, state, err := c.QueryConfig()
	if err := checkResult("query config", code, err); err != nil {
		return err
	}

	code, assignments, err := c.QueryAllAssignments()
	if err := checkResult("query assignments", code, err); err != nil {
		return err
	}

	if reg, regErr := config.LoadRegistry(); regErr == nil {
		reg.UpdateControllerLastSeen(endpoint())
		_ = reg.Save()
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(shownConfig{
			TempCount:     state.TempCount,
			PressureCount: state.PressureCount,
			EGTEnabled:    state.EGTEnabled,
			BME280Enabled: state.BME280Enabled,
			TempSPNs:      assignments.TempSPNs,
			PressureSPNs:  assignments.PressureSPNs,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printDetailedConfig(state, assignments)
	return nil
}

func printDetailedConfig(state *commander.ConfigState, assignments *commander.Assignments) {
	fmt.Printf("Controller configuration (%s)\n\n", endpoint())
	fmt.Printf("  Temperature inputs: %d\n", state.TempCount)
	fmt.Printf("  Pressure inputs:    %d\n", state.PressureCount)
	fmt.Printf("  EGT input:          %s\n", enabledStr(state.EGTEnabled))
	fmt.Printf("  BME280 module:      %s\n", enabledStr(state.BME280Enabled))

	fmt.Println("\n  Temperature assignments:")
	printAssignmentTable(assignments.TempSPNs)

	fmt.Println("\n  Pressure assignments:")
	printAssignmentTable(assignments.PressureSPNs)
	fmt.Println()
}

func printAssignmentTable(spns []uint16) {
	for i, spn := range spns {
		if spn == protocol.SPNDisabled {
			fmt.Printf("    input %d: (disabled)\n", i+1)
			continue
		}
		fmt.Printf("    input %d: SPN %d (%s)\n", i+1, spn, protocol.SPNName(spn))
	}
}

func enabledStr(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

// --- monitor ---

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live telemetry dashboard",
	Long: `Launch a full-screen dashboard showing the controller's broadcast
telemetry: temperatures, pressures, and humidity, updated as frames arrive.

The monitor is read-only and can run alongside other bus consumers.`,
	Example: `  # Monitor over the default interface
  ossm-cfg monitor
  # Or simply (monitor is default):
  ossm-cfg

  # Monitor through a bridge
  ossm-cfg monitor --bridge garage.local:8192`,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	labels := monitor.Labels{}
	if reg, err := config.LoadRegistry(); err == nil {
		if ctrl := reg.GetController(endpoint()); ctrl != nil {
			labels.Temps = make(map[int]string)
			for i, meta := range ctrl.TempInputs {
				labels.Temps[i-1] = meta.Label
			}
			labels.Pressures = make(map[int]string)
			for i, meta := range ctrl.PressureInputs {
				labels.Pressures[i-1] = meta.Label
			}
		}
	}

	return monitor.Run(bus, endpoint(), labels)
}

// --- assign / unassign ---

var assignCmd = &cobra.Command{
	Use:   "assign <spn> <input>",
	Short: "Assign an SPN to a sensor input",
	Long: `Enable broadcasting of an SPN and bind it to a physical input.

Input numbers are 1-based. Temperature SPNs go to temperature inputs (1-8),
pressure SPNs to pressure inputs (1-7). The EGT SPN (173) ignores the input
number. Run 'ossm-cfg save' afterwards to persist across power cycles.`,
	Example: `  # Engine oil temperature on temp input 2
  ossm-cfg assign 175 2

  # Oil pressure on pressure input 1
  ossm-cfg assign 100 1`,
	Args: cobra.ExactArgs(2),
	RunE: runAssign,
}

func runAssign(cmd *cobra.Command, args []string) error {
	spn, err := parseSPN(args[0])
	if err != nil {
		return err
	}
	input, err := parseInput(args[1])
	if err != nil {
		return err
	}

	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	c, showTrace := newTracedCommander(bus)
	defer showTrace()
	code, err := c.EnableSPN(spn, true, input)
	if err := checkResult("assign SPN", code, err); err != nil {
		return err
	}

	fmt.Printf("SPN %d (%s) assigned to input %d\n", spn, protocol.SPNName(spn), input)
	fmt.Println("Run 'ossm-cfg save' to persist the change.")
	return nil
}

var unassignCmd = &cobra.Command{
	Use:   "unassign <spn> <input>",
	Short: "Disable an SPN on a sensor input",
	Long: `Disable broadcasting of an SPN and free its input.

Run 'ossm-cfg save' afterwards to persist across power cycles.`,
	Example: `  # Stop broadcasting oil temperature from temp input 2
  ossm-cfg unassign 175 2`,
	Args: cobra.ExactArgs(2),
	RunE: runUnassign,
}

func runUnassign(cmd *cobra.Command, args []string) error {
	spn, err := parseSPN(args[0])
	if err != nil {
		return err
	}
	input, err := parseInput(args[1])
	if err != nil {
		return err
	}

	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	c, showTrace := newTracedCommander(bus)
	defer showTrace()
	code, err := c.DisableSPN(spn, input)
	if err := checkResult("unassign SPN", code, err); err != nil {
		return err
	}

	fmt.Printf("SPN %d (%s) disabled on input %d\n", spn, protocol.SPNName(spn), input)
	fmt.Println("Run 'ossm-cfg save' to persist the change.")
	return nil
}

// --- presets ---

var ntcPresetCmd = &cobra.Command{
	Use:   "ntc-preset <aem|bosch|gm> <input>",
	Short: "Apply a thermistor calibration preset",
	Long: `Load a built-in NTC thermistor curve for one temperature input.

Supported presets: AEM (30-2012), Bosch (0280130026), GM (12146312).`,
	Example: `  # Bosch thermistor on temp input 3
  ossm-cfg ntc-preset bosch 3`,
	Args: cobra.ExactArgs(2),
	RunE: runNTCPreset,
}

func runNTCPreset(cmd *cobra.Command, args []string) error {
	preset, err := parseNTCPreset(args[0])
	if err != nil {
		return err
	}
	input, err := parseInput(args[1])
	if err != nil {
		return err
	}

	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Apply NTC Preset",
		Command: fmt.Sprintf("ossm-cfg ntc-preset %s %d", strings.ToLower(preset.String()), input),
		Params: map[string]string{
			"Endpoint": endpoint(),
			"Preset":   preset.String(),
			"Input":    strconv.Itoa(int(input)),
		},
		TotalSteps: 1,
		StepNames:  []string{"Applying preset"},
		Verbose:    verbose,
	})

	c := newCommander(traceBus(bus, runner.Trace()))

	return runner.Run(cmd.Context(), func(onStep ui.StepCallback) error {
		onStep(1, "", ui.StepRunning, "")
		code, err := c.SetNTCPreset(input, preset)
		if err := checkResult("apply NTC preset", code, err); err != nil {
			onStep(1, "", ui.StepFailed, "")
			return err
		}
		onStep(1, "", ui.StepComplete, preset.String())
		return nil
	})
}

var pressurePresetCmd = &cobra.Command{
	Use:   "pressure-preset <preset> <input>",
	Short: "Apply a pressure transducer range preset",
	Long: `Load a built-in transducer range for one pressure input.

Presets are named by full-scale range: absolute bar ranges (1bar, 1.5bar,
2bar, 2.5bar, 3bar, 4bar, 5bar, 7bar, 10bar, 50bar, 100bar, 150bar, 200bar,
1000bar, 2000bar, 3000bar) or gauge PSI ranges (15psi, 30psi, 50psi, 100psi,
150psi, 200psi, 250psi, 300psi, 350psi, 400psi, 500psi). Raw preset codes
are also accepted.`,
	Example: `  # 10 bar transducer on pressure input 1
  ossm-cfg pressure-preset 10bar 1

  # 150 PSI gauge transducer on pressure input 4
  ossm-cfg pressure-preset 150psi 4`,
	Args: cobra.ExactArgs(2),
	RunE: runPressurePreset,
}

func runPressurePreset(cmd *cobra.Command, args []string) error {
	preset, err := parsePressurePreset(args[0])
	if err != nil {
		return err
	}
	input, err := parseInput(args[1])
	if err != nil {
		return err
	}

	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Apply Pressure Preset",
		Command: fmt.Sprintf("ossm-cfg pressure-preset %s %d", args[0], input),
		Params: map[string]string{
			"Endpoint": endpoint(),
			"Preset":   preset.String(),
			"Input":    strconv.Itoa(int(input)),
		},
		TotalSteps: 1,
		StepNames:  []string{"Applying preset"},
		Verbose:    verbose,
	})

	c := newCommander(traceBus(bus, runner.Trace()))

	return runner.Run(cmd.Context(), func(onStep ui.StepCallback) error {
		onStep(1, "", ui.StepRunning, "")
		code, err := c.SetPressurePreset(input, preset)
		if err := checkResult("apply pressure preset", code, err); err != nil {
			onStep(1, "", ui.StepFailed, "")
			return err
		}
		onStep(1, "", ui.StepComplete, preset.String())
		return nil
	})
}

var tcTypeCmd = &cobra.Command{
	Use:   "tc-type <B|E|J|K|N|R|S|T>",
	Short: "Set the EGT thermocouple type",
	Long: `Select the thermocouple type for the dedicated EGT input.

Type K is the common choice for exhaust gas temperature probes.`,
	Example: `  ossm-cfg tc-type K`,
	Args:    cobra.ExactArgs(1),
	RunE:    runTCType,
}

func runTCType(cmd *cobra.Command, args []string) error {
	tc, err := parseTCType(args[0])
	if err != nil {
		return err
	}

	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	c, showTrace := newTracedCommander(bus)
	defer showTrace()
	code, err := c.SetTCType(tc)
	if err := checkResult("set thermocouple type", code, err); err != nil {
		return err
	}

	fmt.Printf("EGT thermocouple type set to %s\n", tc)
	fmt.Println("Run 'ossm-cfg save' to persist the change.")
	return nil
}

// --- raw calibration ---

var ntcParamCmd = &cobra.Command{
	Use:   "ntc-param <input> <beta> <r25>",
	Short: "Set raw NTC thermistor parameters",
	Long: `Set a custom thermistor calibration for one temperature input.

beta is the thermistor Beta coefficient in Kelvin; r25 is the resistance at
25°C in tens of ohms (e.g. 1000 = 10 kΩ). Use the presets unless your
sensor is not covered by them.`,
	Example: `  # Beta 3435K, 10kΩ at 25°C, on temp input 2
  ossm-cfg ntc-param 2 3435 1000`,
	Args: cobra.ExactArgs(3),
	RunE: runNTCParam,
}

func runNTCParam(cmd *cobra.Command, args []string) error {
	input, err := parseInput(args[0])
	if err != nil {
		return err
	}
	beta, err := parseUint16(args[1], "beta")
	if err != nil {
		return err
	}
	r25, err := parseUint16(args[2], "r25")
	if err != nil {
		return err
	}

	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	c, showTrace := newTracedCommander(bus)
	defer showTrace()
	code, err := c.SetNTCParam(input, beta, r25)
	if err := checkResult("set NTC parameters", code, err); err != nil {
		return err
	}

	fmt.Printf("NTC parameters set on input %d (beta=%d, r25=%d)\n", input, beta, r25)
	fmt.Println("Run 'ossm-cfg save' to persist the change.")
	return nil
}

var pressureRangeCmd = &cobra.Command{
	Use:   "pressure-range <input> <min-kpa> <max-kpa>",
	Short: "Set a raw pressure transducer range",
	Long: `Set a custom transducer range for one pressure input.

min-kpa and max-kpa are the pressures at the transducer's 0.5V and 4.5V
output points. Use the presets unless your sensor is not covered by them.`,
	Example: `  # 0-1000 kPa transducer on pressure input 3
  ossm-cfg pressure-range 3 0 1000`,
	Args: cobra.ExactArgs(3),
	RunE: runPressureRange,
}

func runPressureRange(cmd *cobra.Command, args []string) error {
	input, err := parseInput(args[0])
	if err != nil {
		return err
	}
	minKPa, err := parseUint16(args[1], "min-kpa")
	if err != nil {
		return err
	}
	maxKPa, err := parseUint16(args[2], "max-kpa")
	if err != nil {
		return err
	}
	if maxKPa <= minKPa {
		return fmt.Errorf("max-kpa must be greater than min-kpa")
	}

	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	c, showTrace := newTracedCommander(bus)
	defer showTrace()
	code, err := c.SetPressureRange(input, minKPa, maxKPa)
	if err := checkResult("set pressure range", code, err); err != nil {
		return err
	}

	fmt.Printf("Pressure range set on input %d (%d-%d kPa)\n", input, minKPa, maxKPa)
	fmt.Println("Run 'ossm-cfg save' to persist the change.")
	return nil
}

// --- save / reset ---

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist the running configuration to EEPROM",
	Long: `Write the controller's current configuration to EEPROM so it
survives power cycles. Until saved, changes live only in RAM.`,
	Example: `  ossm-cfg save`,
	RunE:    runSave,
}

func runSave(cmd *cobra.Command, args []string) error {
	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	c, showTrace := newTracedCommander(bus)
	defer showTrace()
	code, err := c.SaveConfig()
	if err := checkResult("save configuration", code, err); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration saved", map[string]string{
		"Endpoint": endpoint(),
	})
	return nil
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore factory default configuration",
	Long: `Restore the controller's factory default configuration.

All SPN assignments, calibrations, and presets are lost. The reset takes
effect immediately; it does not need a separate save.`,
	Example: `  ossm-cfg reset

  # Skip the confirmation prompt (scripts)
  ossm-cfg reset --yes`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&skipConfirm, "yes", false, "Skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !skipConfirm && !ui.ResetConfirmation() {
		return nil
	}

	bus, err := openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	c, showTrace := newTracedCommander(bus)
	defer showTrace()
	code, err := c.ResetConfig()
	if err := checkResult("factory reset", code, err); err != nil {
		return err
	}

	ui.PrintSuccess("Factory defaults restored", map[string]string{
		"Endpoint": endpoint(),
	})
	return nil
}

// --- argument parsing ---

func parseSPN(arg string) (uint16, error) {
	v, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid SPN %q: must be a number", arg)
	}
	return uint16(v), nil
}

func parseInput(arg string) (uint8, error) {
	v, err := strconv.ParseUint(arg, 10, 8)
	if err != nil || v < 1 || v > protocol.MaxTempInputs {
		return 0, fmt.Errorf("invalid input %q: must be 1-%d", arg, protocol.MaxTempInputs)
	}
	return uint8(v), nil
}

func parseUint16(arg, name string) (uint16, error) {
	v, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number 0-65535", name, arg)
	}
	return uint16(v), nil
}

func parseNTCPreset(arg string) (protocol.NTCPreset, error) {
	switch strings.ToLower(arg) {
	case "aem":
		return protocol.NTCPresetAEM, nil
	case "bosch":
		return protocol.NTCPresetBosch, nil
	case "gm":
		return protocol.NTCPresetGM, nil
	}
	if v, err := strconv.ParseUint(arg, 10, 8); err == nil {
		p := protocol.NTCPreset(v)
		if p.Valid() {
			return p, nil
		}
	}
	return 0, fmt.Errorf("invalid NTC preset %q: use aem, bosch, or gm", arg)
}

// pressurePresetCodes maps normalized range names ("10bar", "150psi") to codes
var pressurePresetCodes = map[string]protocol.PressurePreset{
	"1bar": protocol.PresPreset1Bar, "1.5bar": protocol.PresPreset1_5Bar,
	"2bar": protocol.PresPreset2Bar, "2.5bar": protocol.PresPreset2_5Bar,
	"3bar": protocol.PresPreset3Bar, "4bar": protocol.PresPreset4Bar,
	"5bar": protocol.PresPreset5Bar, "7bar": protocol.PresPreset7Bar,
	"10bar": protocol.PresPreset10Bar, "50bar": protocol.PresPreset50Bar,
	"100bar": protocol.PresPreset100Bar, "150bar": protocol.PresPreset150Bar,
	"200bar": protocol.PresPreset200Bar, "1000bar": protocol.PresPreset1000Bar,
	"2000bar": protocol.PresPreset2000Bar, "3000bar": protocol.PresPreset3000Bar,
	"15psi": protocol.PresPreset15PSI, "30psi": protocol.PresPreset30PSI,
	"50psi": protocol.PresPreset50PSI, "100psi": protocol.PresPreset100PSI,
	"150psi": protocol.PresPreset150PSI, "200psi": protocol.PresPreset200PSI,
	"250psi": protocol.PresPreset250PSI, "300psi": protocol.PresPreset300PSI,
	"350psi": protocol.PresPreset350PSI, "400psi": protocol.PresPreset400PSI,
	"500psi": protocol.PresPreset500PSI,
}

func parsePressurePreset(arg string) (protocol.PressurePreset, error) {
	name := strings.ToLower(strings.ReplaceAll(arg, " ", ""))
	if p, ok := pressurePresetCodes[name]; ok {
		return p, nil
	}
	if v, err := strconv.ParseUint(arg, 10, 8); err == nil {
		p := protocol.PressurePreset(v)
		if p.Valid() {
			return p, nil
		}
	}
	return 0, fmt.Errorf("invalid pressure preset %q: use a range like 10bar or 150psi", arg)
}

func parseTCType(arg string) (protocol.TCType, error) {
	switch strings.ToUpper(arg) {
	case "B":
		return protocol.TCTypeB, nil
	case "E":
		return protocol.TCTypeE, nil
	case "J":
		return protocol.TCTypeJ, nil
	case "K":
		return protocol.TCTypeK, nil
	case "N":
		return protocol.TCTypeN, nil
	case "R":
		return protocol.TCTypeR, nil
	case "S":
		return protocol.TCTypeS, nil
	case "T":
		return protocol.TCTypeT, nil
	}
	return 0, fmt.Errorf("invalid thermocouple type %q: use B, E, J, K, N, R, S, or T", arg)
}
