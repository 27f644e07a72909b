package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name (the -board flag on the host, fixed on the pico build)
// Val: raw JSON bytes decoded into types.Config
// -----------------------------------------------------------------------------

// Pico-ePaper-2.13 hat on SPI1 with a DHT11 on GP15.
const cfgPico = `{
  "board": "pico",
  "tick_ms": 1000,
  "sensor": {"type": "dht11", "pin": "GP15"},
  "display": {
    "type": "epd2in13",
    "width": 122, "height": 250,
    "cs": 9, "dc": 8, "rst": 12, "busy": 13
  },
  "log": {"level": "info", "format": "text"}
}`

// Raspberry Pi with the 2.13" V4 hat and a DHT11 on GPIO4.
const cfgRPi = `{
  "board": "rpi",
  "tick_ms": 1000,
  "sensor": {"type": "dht11", "pin": "GPIO4"},
  "display": {"type": "waveshare2in13v4"},
  "log": {"level": "info", "format": "text"},
  "metrics": {"listen": ":9105"}
}`

// Desktop simulator: random-walk sensor rendering into a BMP file.
const cfgSim = `{
  "board": "sim",
  "tick_ms": 1000,
  "sensor": {"type": "sim", "seed": 1, "fail_rate": 0.05},
  "display": {"type": "bmp", "path": "envpaper.bmp"},
  "log": {"level": "info", "format": "text"},
  "metrics": {"listen": "127.0.0.1:9105"}
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"rpi":  []byte(cfgRPi),
	"sim":  []byte(cfgSim),
}
