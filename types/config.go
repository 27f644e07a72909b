package types

// Config is the full runtime configuration, one JSON object per board.

type Config struct {
	Board   string        `json:"board"`
	TickMs  uint32        `json:"tick_ms"` // polling interval, default 1000
	Sensor  SensorConfig  `json:"sensor"`
	Display DisplayConfig `json:"display"`
	Log     LogConfig     `json:"log"`
	Metrics MetricsConfig `json:"metrics"`
}

type SensorConfig struct {
	Type string `json:"type"`           // "aht20", "dht11", "dht22", "sim"
	Bus  string `json:"bus,omitempty"`  // I2C bus name, e.g. "1" (Linux) or "i2c0" (RP2040)
	Addr uint16 `json:"addr,omitempty"` // I2C address, driver default when zero
	Pin  string `json:"pin,omitempty"`  // GPIO name for one-wire sensors, e.g. "GPIO4" or "GP15"

	// Simulator only.
	Seed     int64   `json:"seed,omitempty"`
	FailRate float64 `json:"fail_rate,omitempty"` // 0..1
}

type DisplayConfig struct {
	Type   string `json:"type"`           // "waveshare2in13v4", "epd2in13", "bmp", "null"
	SPI    string `json:"spi,omitempty"`  // SPI port name on Linux, "" for default
	Path   string `json:"path,omitempty"` // bmp output file
	Width  int16  `json:"width,omitempty"`
	Height int16  `json:"height,omitempty"`

	// RP2040 wiring (GPIO numbers).
	CS   int `json:"cs,omitempty"`
	DC   int `json:"dc,omitempty"`
	RST  int `json:"rst,omitempty"`
	Busy int `json:"busy,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level"`  // "debug", "info", "warn", "error"
	Format string `json:"format"` // "text" or "json"
}

type MetricsConfig struct {
	Listen string `json:"listen,omitempty"` // e.g. ":9105"; empty disables
}
