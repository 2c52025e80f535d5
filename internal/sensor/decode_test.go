package sensor

import (
	"testing"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/j1939"
	"github.com/ossmdev/ossmcfg/internal/protocol"
)

func telemetryFrame(pgn uint32, data []byte) canbus.Frame {
	frame := canbus.Frame{
		ID:       uint32(j1939.BuildID(pgn, 6, protocol.OSSMSourceAddress)),
		Extended: true,
		DLC:      8,
	}
	for i := range frame.Data {
		frame.Data[i] = 0xFF
	}
	copy(frame.Data[:], data)
	return frame
}

func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < 0.001 && diff > -0.001
}

func TestApplyEngineTemp(t *testing.T) {
	d := NewData()

	// coolant 90°C -> 130 raw; fuel 45°C -> 85 raw; oil 95°C 16-bit LE:
	// (95+273)/0.03125 = 11776 = 0x2E00
	frame := telemetryFrame(PGNEngineTemp, []byte{130, 85, 0x00, 0x2E})
	if !d.Apply(frame) {
		t.Fatal("Apply() = false for engine temp PGN")
	}

	if !almostEqual(d.CoolantTemp, 90) {
		t.Errorf("CoolantTemp = %v, want 90", d.CoolantTemp)
	}
	if !almostEqual(d.FuelTemp, 45) {
		t.Errorf("FuelTemp = %v, want 45", d.FuelTemp)
	}
	if !almostEqual(d.OilTemp, 95) {
		t.Errorf("OilTemp = %v, want 95", d.OilTemp)
	}
	if d.LastUpdate.IsZero() {
		t.Error("LastUpdate not set")
	}
}

func TestApplyFluidPressures(t *testing.T) {
	d := NewData()

	// fuel 400 kPa -> 100 raw (4 kPa/bit); oil 320 kPa -> 80 raw;
	// coolant 120 kPa -> 60 raw (2 kPa/bit)
	frame := telemetryFrame(PGNEngineFluidPress, []byte{100, 0xFF, 0xFF, 80, 0xFF, 0xFF, 60})
	if !d.Apply(frame) {
		t.Fatal("Apply() = false for fluid pressure PGN")
	}

	if !almostEqual(d.FuelPressure, 400) {
		t.Errorf("FuelPressure = %v, want 400", d.FuelPressure)
	}
	if !almostEqual(d.OilPressure, 320) {
		t.Errorf("OilPressure = %v, want 320", d.OilPressure)
	}
	if !almostEqual(d.CoolantPressure, 120) {
		t.Errorf("CoolantPressure = %v, want 120", d.CoolantPressure)
	}
}

func TestApplyNotAvailableMarkers(t *testing.T) {
	d := NewData()

	frame := telemetryFrame(PGNEngineTemp, []byte{0xFF, 0xFF, 0xFF, 0xFF})
	if !d.Apply(frame) {
		t.Fatal("Apply() = false")
	}

	if Available(d.CoolantTemp) {
		t.Errorf("CoolantTemp = %v, want not available", d.CoolantTemp)
	}
	if Available(d.OilTemp) {
		t.Errorf("OilTemp = %v, want not available", d.OilTemp)
	}
}

func TestApplyTurboPressure(t *testing.T) {
	d := NewData()

	// CAC inlet 200 kPa -> 1600 raw LE (0.125 kPa/bit) = 0x0640
	frame := telemetryFrame(PGNTurboPress, []byte{0x40, 0x06, 0xFF, 0xFF})
	if !d.Apply(frame) {
		t.Fatal("Apply() = false")
	}

	if !almostEqual(d.CACInletPressure, 200) {
		t.Errorf("CACInletPressure = %v, want 200", d.CACInletPressure)
	}
	// Second pair was 0xFFFF: must remain untouched (not available).
	if Available(d.TransferPipePressure) {
		t.Errorf("TransferPipePressure = %v, want not available", d.TransferPipePressure)
	}
}

func TestApplyIgnoresForeignTraffic(t *testing.T) {
	d := NewData()

	// Right PGN, wrong source.
	frame := telemetryFrame(PGNEngineTemp, []byte{130})
	frame.ID = uint32(j1939.BuildID(PGNEngineTemp, 6, 0x42))
	if d.Apply(frame) {
		t.Error("Apply() accepted a frame from a foreign source")
	}

	// OSSM source, but a command response, not telemetry.
	resp := telemetryFrame(protocol.PGNResponse, []byte{0x05, 0x00})
	if d.Apply(resp) {
		t.Error("Apply() accepted a response frame as telemetry")
	}

	if !d.LastUpdate.IsZero() {
		t.Error("LastUpdate set by a rejected frame")
	}
}

func TestApplyAmbientAndHumidity(t *testing.T) {
	d := NewData()

	// baro 101.5 kPa -> 203 raw; ambient 25°C LE: (25+273)/0.03125 = 9536
	// = 0x2540; air inlet 30°C -> 70 raw
	d.Apply(telemetryFrame(PGNAmbientConditions, []byte{203, 0xFF, 0xFF, 0x40, 0x25, 70}))
	// bay 55°C -> 95 raw; humidity 48% -> 120 raw
	d.Apply(telemetryFrame(PGNSupplyPressure, []byte{95, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 120}))

	if !almostEqual(d.BarometricPressure, 101.5) {
		t.Errorf("BarometricPressure = %v, want 101.5", d.BarometricPressure)
	}
	if !almostEqual(d.AmbientTemp, 25) {
		t.Errorf("AmbientTemp = %v, want 25", d.AmbientTemp)
	}
	if !almostEqual(d.AirInletTemp, 30) {
		t.Errorf("AirInletTemp = %v, want 30", d.AirInletTemp)
	}
	if !almostEqual(d.EngineBayTemp, 55) {
		t.Errorf("EngineBayTemp = %v, want 55", d.EngineBayTemp)
	}
	if !almostEqual(d.Humidity, 48) {
		t.Errorf("Humidity = %v, want 48", d.Humidity)
	}
}
