package sensor

import (
	"errors"
	"testing"

	"envpaper-go/errcode"
	"envpaper-go/types"
)

// readyI2C answers every AHT20 read with a calibrated, finished conversion.
type readyI2C struct {
	hraw, traw uint32
	err        error
	closed     bool
}

func (f *readyI2C) Tx(addr uint16, w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	if len(r) == 0 {
		return nil
	}
	r[0] = 0x08
	if len(r) == 7 {
		r[1] = byte(f.hraw >> 12)
		r[2] = byte(f.hraw >> 4)
		r[3] = byte(f.hraw<<4) | byte(f.traw>>16)&0x0F
		r[4] = byte(f.traw >> 8)
		r[5] = byte(f.traw)
	}
	return nil
}

func (f *readyI2C) Close() error { f.closed = true; return nil }

func TestAHT20SampleTruncatesToWholeUnits(t *testing.T) {
	for _, c := range []struct {
		name       string
		hraw, traw uint32
		wantT      int
		wantH      int
	}{
		{"warm", 471860, 374866, 21, 45}, // 21.5 °C, 45.0 %
		{"below zero", 0, 254280, -1, 0}, // -1.5 °C
	} {
		t.Run(c.name, func(t *testing.T) {
			s := NewAHT20(&readyI2C{hraw: c.hraw, traw: c.traw}, 0)
			r, err := s.Sample()
			if err != nil {
				t.Fatalf("Sample: %v", err)
			}
			if !r.Valid || r.Temperature != c.wantT || r.Humidity != c.wantH {
				t.Fatalf("reading = %+v, want T=%d H=%d", r, c.wantT, c.wantH)
			}
		})
	}
}

func TestAHT20SampleFailureIsSensorRead(t *testing.T) {
	nack := errors.New("nack")
	s := NewAHT20(&readyI2C{err: nack}, 0)

	r, err := s.Sample()
	if errcode.Of(err) != errcode.SensorRead {
		t.Fatalf("code = %q, want sensor_read (err=%v)", errcode.Of(err), err)
	}
	if !errors.Is(err, nack) {
		t.Fatalf("cause lost: %v", err)
	}
	if r.Valid {
		t.Fatal("failed sample reported valid")
	}
}

func TestAHT20CloseClosesBus(t *testing.T) {
	bus := &readyI2C{}
	if err := NewAHT20(bus, 0).Close(); err != nil || !bus.closed {
		t.Fatalf("Close err=%v closed=%v", err, bus.closed)
	}
}

func TestSimIsDeterministic(t *testing.T) {
	a, b := NewSim(7, 0.2), NewSim(7, 0.2)
	for i := 0; i < 50; i++ {
		ra, ea := a.Sample()
		rb, eb := b.Sample()
		if ra != rb || (ea == nil) != (eb == nil) {
			t.Fatalf("step %d diverged: %+v/%v vs %+v/%v", i, ra, ea, rb, eb)
		}
	}
}

func TestSimFailRateBounds(t *testing.T) {
	never, always := NewSim(1, 0), NewSim(1, 1)
	for i := 0; i < 20; i++ {
		if _, err := never.Sample(); err != nil {
			t.Fatalf("fail_rate 0 failed: %v", err)
		}
		if _, err := always.Sample(); errcode.Of(err) != errcode.SensorRead {
			t.Fatalf("fail_rate 1 returned %v", err)
		}
	}
}

func TestSimStepsByAtMostOne(t *testing.T) {
	s := NewSim(3, 0)
	prev, _ := s.Sample()
	for i := 0; i < 200; i++ {
		r, _ := s.Sample()
		if d := r.Temperature - prev.Temperature; d < -1 || d > 1 {
			t.Fatalf("temperature jumped %d", d)
		}
		if r.Humidity < 0 || r.Humidity > 100 {
			t.Fatalf("humidity out of range: %d", r.Humidity)
		}
		prev = r
	}
}

func TestTypesSortedAndRegistered(t *testing.T) {
	got := Types()
	seen := map[string]bool{}
	for i, typ := range got {
		if i > 0 && got[i-1] >= typ {
			t.Fatalf("not sorted: %v", got)
		}
		seen[typ] = true
	}
	for _, want := range []string{"aht20", "dht11", "dht22", "sim"} {
		if !seen[want] {
			t.Fatalf("missing %q in %v", want, got)
		}
	}
}

func TestBuildUnknownType(t *testing.T) {
	_, err := Build(types.SensorConfig{Type: "bogus"})
	if errcode.Of(err) != errcode.UnknownSensor {
		t.Fatalf("err = %v, want unknown_sensor", err)
	}
}

func TestBuildSim(t *testing.T) {
	src, err := Build(types.SensorConfig{Type: "sim", Seed: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := src.(*Sim); !ok {
		t.Fatalf("Build returned %T", src)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register("sim", BuilderFunc(func(types.SensorConfig) (Source, error) { return nil, nil }))
}

func TestParseGPIO(t *testing.T) {
	for in, want := range map[string]int{"15": 15, "GP4": 4, "GPIO22": 22, "gpio3": 3} {
		got, err := parseGPIO(in)
		if err != nil || got != want {
			t.Fatalf("parseGPIO(%q) = %d, %v", in, got, err)
		}
	}
	if _, err := parseGPIO("SDA"); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("parseGPIO(SDA) err = %v", err)
	}
}
