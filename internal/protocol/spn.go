package protocol

import "sort"

// SPNDisabled is the normalized "no assignment" value for an input slot.
// On the wire a disabled slot reads 0xFFFF; query results convert that to
// zero before surfacing tables.
const SPNDisabled uint16 = 0

// SPNCategory classifies an SPN by the kind of physical input it can be
// assigned to.
type SPNCategory int

const (
	CategoryTemperature SPNCategory = iota
	CategoryPressure
	CategoryEGT
	CategoryBME280
	CategoryUnknown
)

func (c SPNCategory) String() string {
	switch c {
	case CategoryTemperature:
		return "temperature"
	case CategoryPressure:
		return "pressure"
	case CategoryEGT:
		return "EGT"
	case CategoryBME280:
		return "BME280"
	}
	return "unknown"
}

// SPNInfo describes one suspect parameter number the OSSM firmware knows.
type SPNInfo struct {
	SPN      uint16
	Name     string
	Unit     string
	Category SPNCategory
}

// EGTSPN is the single exhaust gas temperature SPN.
const EGTSPN uint16 = 173

// knownSPNs mirrors the firmware's SPN table.
var knownSPNs = map[uint16]SPNInfo{
	// Temperature inputs
	175:  {175, "Engine Oil Temp", "C", CategoryTemperature},
	110:  {110, "Coolant Temp", "C", CategoryTemperature},
	174:  {174, "Fuel Temp", "C", CategoryTemperature},
	105:  {105, "Boost Temp", "C", CategoryTemperature},
	1131: {1131, "CAC Inlet Temp", "C", CategoryTemperature},
	1132: {1132, "Transfer Pipe Temp", "C", CategoryTemperature},
	1133: {1133, "Air Inlet Temp", "C", CategoryTemperature},
	172:  {172, "Air Inlet Temp 2", "C", CategoryTemperature},
	441:  {441, "Engine Bay Temp", "C", CategoryTemperature},

	// Pressure inputs
	100:  {100, "Engine Oil Pres", "kPa", CategoryPressure},
	109:  {109, "Coolant Pres", "kPa", CategoryPressure},
	94:   {94, "Fuel Delivery Pres", "kPa", CategoryPressure},
	102:  {102, "Boost Pres", "kPa", CategoryPressure},
	106:  {106, "Air Inlet Pres", "kPa", CategoryPressure},
	1127: {1127, "CAC Inlet Pres", "kPa", CategoryPressure},
	1128: {1128, "Transfer Pipe Pres", "kPa", CategoryPressure},

	// EGT
	EGTSPN: {EGTSPN, "EGT", "C", CategoryEGT},

	// BME280 environmental sensor
	171: {171, "Ambient Temp", "C", CategoryBME280},
	108: {108, "Barometric Pres", "kPa", CategoryBME280},
	354: {354, "Humidity", "%", CategoryBME280},
}

// LookupSPN returns the catalogue entry for an SPN. Unknown SPNs get a
// placeholder entry with CategoryUnknown.
func LookupSPN(spn uint16) SPNInfo {
	if info, ok := knownSPNs[spn]; ok {
		return info
	}
	return SPNInfo{SPN: spn, Name: "Unknown", Unit: "", Category: CategoryUnknown}
}

// SPNName returns a display name, treating the disabled sentinel specially.
func SPNName(spn uint16) string {
	if spn == SPNDisabled {
		return "(disabled)"
	}
	return LookupSPN(spn).Name
}

// SPNsByCategory lists the catalogue SPNs of one category in ascending
// SPN order, for CLI help and validation.
func SPNsByCategory(cat SPNCategory) []SPNInfo {
	var out []SPNInfo
	for _, info := range knownSPNs {
		if info.Category == cat {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SPN < out[j].SPN })
	return out
}
