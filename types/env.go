package types

// ------------------------
// Temperature & humidity
// ------------------------

// Reading is one sensor sample, coarse-quantised to whole units.
// It is built fresh on every tick and never mutated.
type Reading struct {
	Temperature int  `json:"temperature_c"` // whole °C
	Humidity    int  `json:"humidity_pct"`  // whole %RH
	Valid       bool `json:"valid"`
}

// FieldID names one of the two dynamic display fields.
type FieldID uint8

const (
	FieldTemperature FieldID = iota
	FieldHumidity

	NumFields = 2
)

func (f FieldID) String() string {
	switch f {
	case FieldTemperature:
		return "temperature"
	case FieldHumidity:
		return "humidity"
	default:
		return "unknown"
	}
}

// TickReport is published once per polling tick on env/tick.
type TickReport struct {
	Valid       bool      `json:"valid"`       // sample succeeded this tick
	Temperature int       `json:"temperature"` // last known value
	Humidity    int       `json:"humidity"`    // last known value
	Redrawn     []FieldID `json:"redrawn,omitempty"`
	Failed      []FieldID `json:"failed,omitempty"`
	TS          int64     `json:"ts_ms"`
}
