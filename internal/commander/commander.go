// Package commander implements the request/response exchange with the OSSM
// controller: one outstanding command at a time, correlated against bus
// traffic purely by frame content, bounded by a configurable deadline.
package commander

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/logging"
	"github.com/ossmdev/ossmcfg/internal/protocol"
)

// TimeoutError reports that no correlated response arrived before the
// deadline. It is the only transport-tier failure surfaced from a healthy
// bus; soft frame mismatches are discarded silently while polling.
type TimeoutError struct {
	Command protocol.Command
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no response for command %s after %s", e.Command, e.Timeout)
}

// IsTimeout reports whether err is a response timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// Commander sends commands to the OSSM and waits for correlated replies.
//
// A Commander holds no device state: every query reflects the device at the
// instant it is answered. Exchanges are strictly sequential; the zero
// synchronization inside is deliberate, callers needing concurrent use must
// serialize externally.
type Commander struct {
	bus          canbus.Bus
	timeout      time.Duration
	settleDelay  time.Duration
	pollInterval time.Duration
}

// Option adjusts Commander timing.
type Option func(*Commander)

// WithTimeout overrides the response deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Commander) { c.timeout = d }
}

// WithSettleDelay overrides the post-send processing delay.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Commander) { c.settleDelay = d }
}

// WithPollInterval overrides the per-attempt receive timeout.
func WithPollInterval(d time.Duration) Option {
	return func(c *Commander) { c.pollInterval = d }
}

// New creates a Commander on the given bus with protocol-default timing.
func New(bus canbus.Bus, opts ...Option) *Commander {
	c := &Commander{
		bus:          bus,
		timeout:      protocol.DefaultResponseTimeout,
		settleDelay:  protocol.DefaultSettleDelay,
		pollInterval: protocol.DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the configured response deadline.
func (c *Commander) Timeout() time.Duration { return c.timeout }

// Exchange sends one command and polls the bus until the matching response
// arrives or the deadline passes. Frames that fail correlation (wrong PGN,
// wrong source, different echoed command) are unrelated traffic and are
// dropped without ending the wait.
func (c *Commander) Exchange(cmd protocol.Command, params []byte) (*protocol.Response, error) {
	frame, err := protocol.BuildCommandFrame(cmd, params)
	if err != nil {
		return nil, err
	}

	logging.Debug("TX command",
		zap.String("command", cmd.String()),
		zap.String("frame", frame.String()),
	)

	if err := c.bus.Send(frame); err != nil {
		return nil, fmt.Errorf("send %s: %w", cmd, err)
	}

	// Give the controller time to process before polling.
	time.Sleep(c.settleDelay)

	start := time.Now()
	for time.Since(start) < c.timeout {
		candidate, err := c.bus.Recv(c.pollInterval)
		if err != nil {
			return nil, fmt.Errorf("receive while awaiting %s: %w", cmd, err)
		}
		if candidate == nil {
			continue
		}

		resp, err := protocol.ParseResponse(*candidate, cmd)
		if err != nil {
			// Not our reply. Keep polling until the deadline.
			logging.Debug("RX discarded",
				zap.String("frame", candidate.String()),
				zap.String("reason", err.Error()),
			)
			continue
		}

		logging.Debug("RX response",
			zap.String("command", cmd.String()),
			zap.String("result", resp.Error.String()),
		)
		return resp, nil
	}

	return nil, &TimeoutError{Command: cmd, Timeout: c.timeout}
}

// EnableSPN assigns an SPN to an input (1-8 temperature, 1-7 pressure).
// Params: SPN high byte, SPN low byte, enable flag, input index.
func (c *Commander) EnableSPN(spn uint16, enable bool, input uint8) (protocol.ErrorCode, error) {
	params := []byte{
		byte(spn >> 8),
		byte(spn),
		0,
		input,
	}
	if enable {
		params[2] = 1
	}

	resp, err := c.Exchange(protocol.CmdEnableSPN, params)
	if err != nil {
		return 0, err
	}
	return resp.Error, nil
}

// DisableSPN removes an SPN assignment from an input.
func (c *Commander) DisableSPN(spn uint16, input uint8) (protocol.ErrorCode, error) {
	return c.EnableSPN(spn, false, input)
}

// SetNTCPreset applies a thermistor calibration preset to a temperature
// input. Params: input index, preset code.
func (c *Commander) SetNTCPreset(input uint8, preset protocol.NTCPreset) (protocol.ErrorCode, error) {
	resp, err := c.Exchange(protocol.CmdNTCPreset, []byte{input, byte(preset)})
	if err != nil {
		return 0, err
	}
	return resp.Error, nil
}

// SetPressurePreset applies a transducer range preset to a pressure input.
// Params: input index, preset code.
func (c *Commander) SetPressurePreset(input uint8, preset protocol.PressurePreset) (protocol.ErrorCode, error) {
	resp, err := c.Exchange(protocol.CmdPressurePreset, []byte{input, byte(preset)})
	if err != nil {
		return 0, err
	}
	return resp.Error, nil
}

// SetNTCParam programs a raw thermistor curve instead of a preset.
// Params: input index, beta (16-bit BE), R25 in tens of ohms (16-bit BE).
func (c *Commander) SetNTCParam(input uint8, beta uint16, r25 uint16) (protocol.ErrorCode, error) {
	params := make([]byte, 5)
	params[0] = input
	binary.BigEndian.PutUint16(params[1:3], beta)
	binary.BigEndian.PutUint16(params[3:5], r25)

	resp, err := c.Exchange(protocol.CmdSetNTCParam, params)
	if err != nil {
		return 0, err
	}
	return resp.Error, nil
}

// SetPressureRange programs a raw transducer range instead of a preset.
// Params: input index, min and max range in kPa (16-bit BE each).
func (c *Commander) SetPressureRange(input uint8, minKPa uint16, maxKPa uint16) (protocol.ErrorCode, error) {
	params := make([]byte, 5)
	params[0] = input
	binary.BigEndian.PutUint16(params[1:3], minKPa)
	binary.BigEndian.PutUint16(params[3:5], maxKPa)

	resp, err := c.Exchange(protocol.CmdSetPressureRange, params)
	if err != nil {
		return 0, err
	}
	return resp.Error, nil
}

// SetTCType selects the EGT thermocouple type. Params: type code 0-7.
func (c *Commander) SetTCType(tcType protocol.TCType) (protocol.ErrorCode, error) {
	resp, err := c.Exchange(protocol.CmdSetTCType, []byte{byte(tcType)})
	if err != nil {
		return 0, err
	}
	return resp.Error, nil
}

// SaveConfig persists the current configuration to EEPROM.
func (c *Commander) SaveConfig() (protocol.ErrorCode, error) {
	resp, err := c.Exchange(protocol.CmdSave, nil)
	if err != nil {
		return 0, err
	}
	return resp.Error, nil
}

// ResetConfig restores factory defaults.
func (c *Commander) ResetConfig() (protocol.ErrorCode, error) {
	resp, err := c.Exchange(protocol.CmdReset, nil)
	if err != nil {
		return 0, err
	}
	return resp.Error, nil
}
