// Package sensor builds temperature/humidity sources from configuration.
// Each source type registers a Builder from an init function; platform files
// decide which types exist in a given build.
package sensor

import (
	"sort"
	"sync"

	"envpaper-go/errcode"
	"envpaper-go/types"
)

// Source is a blocking "sample now" operation. A failed sample returns an
// error whose code is errcode.SensorRead.
type Source interface {
	Sample() (types.Reading, error)
}

type Builder interface {
	Build(cfg types.SensorConfig) (Source, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(cfg types.SensorConfig) (Source, error)

func (f BuilderFunc) Build(cfg types.SensorConfig) (Source, error) { return f(cfg) }

var (
	regMu    sync.RWMutex
	builders = map[string]Builder{}
)

func Register(typ string, b Builder) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := builders[typ]; exists {
		panic("duplicate sensor builder: " + typ)
	}
	builders[typ] = b
}

// Build constructs the source named by cfg.Type.
func Build(cfg types.SensorConfig) (Source, error) {
	regMu.RLock()
	b, ok := builders[cfg.Type]
	regMu.RUnlock()
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownSensor, Op: "sensor.Build", Msg: cfg.Type}
	}
	return b.Build(cfg)
}

// Types lists the registered source types.
func Types() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(builders))
	for k := range builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
