package config

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"envpaper-go/bus"
	"envpaper-go/errcode"
	"envpaper-go/types"
)

const (
	serviceName  = "config"
	configPrefix = "config"

	defaultTickMs   = 1000
	defaultLogLevel = "info"
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// Boards lists the embedded board names.
func Boards() []string {
	out := make([]string, 0, len(embeddedConfigs))
	for k := range embeddedConfigs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Load decodes the embedded config for board, overlays override (if any)
// and fills defaults. Fields absent from override keep the embedded value.
func Load(board string, override []byte) (types.Config, error) {
	var cfg types.Config

	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return cfg, &errcode.E{C: errcode.InvalidParams, Op: "config.load", Msg: "no embedded config for board " + board}
	}
	if err := decode(raw, &cfg); err != nil {
		return cfg, errcode.Wrap(errcode.InvalidParams, "config.embedded", err)
	}
	if len(bytes.TrimSpace(override)) > 0 {
		if err := decode(override, &cfg); err != nil {
			return cfg, errcode.Wrap(errcode.InvalidParams, "config.override", err)
		}
	}
	if cfg.Board == "" {
		cfg.Board = board
	}
	applyDefaults(&cfg)
	return cfg, validate(cfg)
}

func decode(raw []byte, cfg *types.Config) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func applyDefaults(cfg *types.Config) {
	if cfg.TickMs == 0 {
		cfg.TickMs = defaultTickMs
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Sensor.Type == "" {
		cfg.Sensor.Type = "sim"
	}
	if cfg.Display.Type == "" {
		cfg.Display.Type = "null"
	}
}

func validate(cfg types.Config) error {
	if cfg.Sensor.FailRate < 0 || cfg.Sensor.FailRate > 1 {
		return &errcode.E{C: errcode.InvalidParams, Op: "config.validate", Msg: "sensor.fail_rate outside 0..1"}
	}
	if cfg.Display.Width < 0 || cfg.Display.Height < 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "config.validate", Msg: "negative display size"}
	}
	if cfg.Display.Type == "bmp" && cfg.Display.Path == "" {
		return &errcode.E{C: errcode.InvalidParams, Op: "config.validate", Msg: "bmp display needs a path"}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

// ConfigService publishes each section of a loaded config as a retained
// message on config/<section>.
type ConfigService struct {
	Name string
	cfg  types.Config
}

func NewConfigService(cfg types.Config) *ConfigService {
	return &ConfigService{Name: serviceName, cfg: cfg}
}

// TopicFor returns the retained topic for a config section.
func TopicFor(section string) bus.Topic { return bus.T(configPrefix, section) }

func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) {
	sections := []struct {
		key string
		val any
	}{
		{"board", s.cfg.Board},
		{"tick_ms", s.cfg.TickMs},
		{"sensor", s.cfg.Sensor},
		{"display", s.cfg.Display},
		{"log", s.cfg.Log},
		{"metrics", s.cfg.Metrics},
	}
	for _, sec := range sections {
		if ctx.Err() != nil {
			return
		}
		conn.Publish(conn.NewMessage(TopicFor(sec.key), sec.val, true))
	}
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go s.publishConfig(ctx, conn)
}
