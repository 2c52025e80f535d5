// Package sensor decodes the OSSM's broadcast telemetry PGNs into a live
// snapshot for the monitor. These are one-way data frames the controller
// emits on its own schedule; no request/response correlation applies.
package sensor

import (
	"time"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/j1939"
	"github.com/ossmdev/ossmcfg/internal/protocol"
)

// Broadcast data PGNs emitted by the OSSM.
const (
	PGNAmbientConditions uint32 = 0xFEF5 // 65269
	PGNInletExhaust      uint32 = 0xFEF6 // 65270
	PGNEngineTemp        uint32 = 0xFEEE // 65262
	PGNEngineFluidPress  uint32 = 0xFEEF // 65263
	PGNEngineTemp2       uint32 = 0xFE69 // 65129
	PGNEngineTemp3       uint32 = 0xFE95 // 65189
	PGNTurboPress        uint32 = 0xFE96 // 65190
	PGNSupplyPressure    uint32 = 0xFE8C // 65164, repurposed for humidity + bay temp
)

// NotAvailable marks a reading the controller has flagged as missing
// (0xFF / 0xFFFF on the wire).
const NotAvailable = -999.0

// Available reports whether a decoded value carries real data.
func Available(v float64) bool { return v != NotAvailable }

// Data is the rolling telemetry snapshot. Zero value means nothing has
// been received yet (LastUpdate is the zero time).
type Data struct {
	// Temperatures, Celsius
	OilTemp          float64
	CoolantTemp      float64
	FuelTemp         float64
	BoostTemp        float64
	CACInletTemp     float64
	TransferPipeTemp float64
	AirInletTemp     float64
	EngineBayTemp    float64
	AmbientTemp      float64
	EGTTemp          float64

	// Pressures, kPa
	OilPressure          float64
	CoolantPressure      float64
	FuelPressure         float64
	BoostPressure        float64
	AirInletPressure     float64
	CACInletPressure     float64
	TransferPipePressure float64
	BarometricPressure   float64

	Humidity float64 // percent

	LastUpdate time.Time
}

// NewData returns a snapshot with every reading marked not available.
func NewData() *Data {
	return &Data{
		OilTemp: NotAvailable, CoolantTemp: NotAvailable, FuelTemp: NotAvailable,
		BoostTemp: NotAvailable, CACInletTemp: NotAvailable, TransferPipeTemp: NotAvailable,
		AirInletTemp: NotAvailable, EngineBayTemp: NotAvailable, AmbientTemp: NotAvailable,
		EGTTemp: NotAvailable,
		OilPressure: NotAvailable, CoolantPressure: NotAvailable, FuelPressure: NotAvailable,
		BoostPressure: NotAvailable, AirInletPressure: NotAvailable, CACInletPressure: NotAvailable,
		TransferPipePressure: NotAvailable, BarometricPressure: NotAvailable,
		Humidity: NotAvailable,
	}
}

// 1°C per bit, +40 offset.
func decodeTempByte(b byte) float64 {
	if b == 0xFF {
		return NotAvailable
	}
	return float64(b) - 40.0
}

// 0.03125°C per bit, -273 offset, little-endian on the wire.
func decodeTemp16LE(low, high byte) float64 {
	if low == 0xFF && high == 0xFF {
		return NotAvailable
	}
	return float64(uint16(high)<<8|uint16(low))*0.03125 - 273.0
}

func decodePressure2kPa(b byte) float64 {
	if b == 0xFF {
		return NotAvailable
	}
	return float64(b) * 2.0
}

func decodePressure4kPa(b byte) float64 {
	if b == 0xFF {
		return NotAvailable
	}
	return float64(b) * 4.0
}

// 0.5 kPa per bit.
func decodeBaroPressure(b byte) float64 {
	if b == 0xFF {
		return NotAvailable
	}
	return float64(b) * 0.5
}

// 0.4% per bit.
func decodeHumidity(b byte) float64 {
	if b == 0xFF {
		return NotAvailable
	}
	return float64(b) * 0.4
}

// Apply folds one broadcast frame into the snapshot. It returns false for
// frames that are not OSSM telemetry (wrong source, command traffic,
// unknown PGN); the snapshot is untouched in that case.
func (d *Data) Apply(frame canbus.Frame) bool {
	if !frame.Extended {
		return false
	}

	id := j1939.ID(frame.ID)
	if id.Source() != protocol.OSSMSourceAddress {
		return false
	}

	buf := frame.Data
	updated := false

	switch id.PGN() {
	case PGNAmbientConditions:
		d.BarometricPressure = decodeBaroPressure(buf[0])
		d.AmbientTemp = decodeTemp16LE(buf[3], buf[4])
		d.AirInletTemp = decodeTempByte(buf[5])
		updated = true

	case PGNInletExhaust:
		d.BoostPressure = decodePressure2kPa(buf[1])
		d.BoostTemp = decodeTempByte(buf[2])
		d.AirInletPressure = decodePressure2kPa(buf[3])
		d.EGTTemp = decodeTemp16LE(buf[5], buf[6])
		updated = true

	case PGNEngineTemp:
		d.CoolantTemp = decodeTempByte(buf[0])
		d.FuelTemp = decodeTempByte(buf[1])
		d.OilTemp = decodeTemp16LE(buf[2], buf[3])
		updated = true

	case PGNEngineFluidPress:
		d.FuelPressure = decodePressure4kPa(buf[0])
		d.OilPressure = decodePressure4kPa(buf[3])
		d.CoolantPressure = decodePressure2kPa(buf[6])
		updated = true

	case PGNEngineTemp2:
		// Hi-res duplicates of values already covered by 65270; the frame
		// still counts as telemetry for freshness.
		updated = true

	case PGNEngineTemp3:
		d.CACInletTemp = decodeTempByte(buf[0])
		d.TransferPipeTemp = decodeTempByte(buf[1])
		updated = true

	case PGNTurboPress:
		// 0.125 kPa per bit, little-endian.
		if buf[0] != 0xFF || buf[1] != 0xFF {
			d.CACInletPressure = float64(uint16(buf[1])<<8|uint16(buf[0])) * 0.125
		}
		if buf[2] != 0xFF || buf[3] != 0xFF {
			d.TransferPipePressure = float64(uint16(buf[3])<<8|uint16(buf[2])) * 0.125
		}
		updated = true

	case PGNSupplyPressure:
		d.EngineBayTemp = decodeTempByte(buf[0])
		d.Humidity = decodeHumidity(buf[6])
		updated = true
	}

	if updated {
		d.LastUpdate = time.Now()
	}
	return updated
}

// Fresh reports whether telemetry arrived within the given window.
func (d *Data) Fresh(window time.Duration) bool {
	if d.LastUpdate.IsZero() {
		return false
	}
	return time.Since(d.LastUpdate) < window
}
