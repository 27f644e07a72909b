package sensor

import (
	"math/rand"

	"envpaper-go/errcode"
	"envpaper-go/types"
	"envpaper-go/x/mathx"
)

func init() {
	Register("sim", BuilderFunc(func(cfg types.SensorConfig) (Source, error) {
		return NewSim(cfg.Seed, cfg.FailRate), nil
	}))
}

// Sim is a random-walk source for hosts without sensor hardware.
// The same seed yields the same sequence of readings and failures.
type Sim struct {
	rnd      *rand.Rand
	failRate float64
	temp     int
	hum      int
}

func NewSim(seed int64, failRate float64) *Sim {
	return &Sim{
		rnd:      rand.New(rand.NewSource(seed)),
		failRate: mathx.Clamp(failRate, 0, 1),
		temp:     21,
		hum:      45,
	}
}

func (s *Sim) Sample() (types.Reading, error) {
	if s.failRate > 0 && s.rnd.Float64() < s.failRate {
		return types.Reading{}, &errcode.E{C: errcode.SensorRead, Op: "sim", Msg: "injected failure"}
	}
	// Mostly steady, occasionally one unit up or down.
	s.temp = mathx.Clamp(s.temp+s.step(), -40, 80)
	s.hum = mathx.Clamp(s.hum+s.step(), 0, 100)
	return types.Reading{Temperature: s.temp, Humidity: s.hum, Valid: true}, nil
}

func (s *Sim) step() int {
	switch n := s.rnd.Intn(10); {
	case n == 0:
		return -1
	case n == 9:
		return 1
	default:
		return 0
	}
}
