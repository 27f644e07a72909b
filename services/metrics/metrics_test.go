//go:build !(rp2040 || rp2350)

package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"

	"envpaper-go/bus"
	"envpaper-go/services/config"
	"envpaper-go/services/envdisplay"
	"envpaper-go/types"
)

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func value(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return -1
	}
	return m.GetCounter().GetValue()
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestObserve(t *testing.T) {
	s := New(quiet())
	s.Observe(types.TickReport{Valid: true, Redrawn: []types.FieldID{types.FieldTemperature, types.FieldHumidity}})
	s.Observe(types.TickReport{Valid: false})
	s.Observe(types.TickReport{Valid: true, Failed: []types.FieldID{types.FieldHumidity}})

	if v := value(s.ticks); v != 3 {
		t.Fatalf("ticks=%v", v)
	}
	if v := value(s.sensorFailures); v != 1 {
		t.Fatalf("sensor failures=%v", v)
	}
	if v := value(s.redraws.WithLabelValues("temperature")); v != 1 {
		t.Fatalf("temperature redraws=%v", v)
	}
	if v := value(s.redrawFailures.WithLabelValues("humidity")); v != 1 {
		t.Fatalf("humidity redraw failures=%v", v)
	}
}

func TestServiceConsumesTicksAndServes(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("metrics")
	pub := b.NewConnection("test")

	s := New(quiet())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = s.Start(ctx, conn)

	pub.Publish(pub.NewMessage(config.TopicFor("metrics"), types.MetricsConfig{Listen: "127.0.0.1:0"}, true))
	eventually(t, "listener", func() bool { return s.Addr() != "" })

	// Subscriptions are in place once the config message has been handled.
	for i := 0; i < 2; i++ {
		pub.Publish(pub.NewMessage(envdisplay.TopicTick(), types.TickReport{Valid: true, Redrawn: []types.FieldID{types.FieldTemperature}}, false))
	}
	eventually(t, "ticks", func() bool { return value(s.ticks) == 2 })

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	for _, want := range []string{
		"envpaper_ticks_total 2",
		`envpaper_redraws_total{field="temperature"} 2`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "temperature_c") {
		t.Fatal("reading values must not be exported")
	}
}

func TestServiceStopsServingOnCancel(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("metrics")
	s := New(quiet())
	ctx, cancel := context.WithCancel(context.Background())
	_ = s.Start(ctx, conn)

	conn.Publish(conn.NewMessage(config.TopicFor("metrics"), types.MetricsConfig{Listen: "127.0.0.1:0"}, true))
	eventually(t, "listener", func() bool { return s.Addr() != "" })

	cancel()
	eventually(t, "shutdown", func() bool { return s.Addr() == "" })
}
