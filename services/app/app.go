// Package app wires configuration, sensor, panel and the sync loop into one
// runnable unit shared by the host and pico binaries.
package app

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"envpaper-go/bus"
	"envpaper-go/services/config"
	"envpaper-go/services/display"
	"envpaper-go/services/envdisplay"
	"envpaper-go/services/metrics"
	"envpaper-go/services/sensor"
	"envpaper-go/types"
)

type App struct {
	Config  types.Config
	Bus     *bus.Bus
	Screen  *display.Screen
	Layout  display.Layout
	Loop    *envdisplay.SyncLoop
	Metrics *metrics.Service

	log     logrus.FieldLogger
	closers []io.Closer
}

// New brings up the devices named by cfg. A sensor or panel that fails to
// build is logged and replaced by the sim sensor or the null panel so the
// loop still runs.
func New(cfg types.Config, log logrus.FieldLogger) *App {
	a := &App{
		Config: cfg,
		Bus:    bus.NewBus(8),
		log:    log.WithField("svc", "app"),
	}

	src, err := sensor.Build(cfg.Sensor)
	if err != nil {
		a.log.WithError(err).WithField("sensor", cfg.Sensor.Type).Error("sensor unavailable; using sim")
		src = sensor.NewSim(cfg.Sensor.Seed, 0)
	}
	a.track(src)

	panel, err := display.BuildPanel(cfg.Display)
	if err != nil {
		a.log.WithError(err).WithField("display", cfg.Display.Type).Error("panel unavailable; using null")
		panel, _ = display.BuildPanel(types.DisplayConfig{Type: "null", Width: cfg.Display.Width, Height: cfg.Display.Height})
	}
	a.track(panel)

	a.Screen = display.NewScreen(panel)
	a.Layout = display.Bootstrap(a.Screen)
	a.Metrics = metrics.New(log)
	a.Loop = envdisplay.New(src, a.Screen, envdisplay.Config{
		Interval:   time.Duration(cfg.TickMs) * time.Millisecond,
		Widgets:    a.Layout.All(),
		Values:     a.Layout.Values(),
		Foreground: display.Black,
		Background: display.White,
		Logger:     log,
		Conn:       a.Bus.NewConnection("envdisplay"),
	})
	return a
}

func (a *App) track(v any) {
	if c, ok := v.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
}

// Run starts the config and metrics services and blocks in the sync loop
// until ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	config.NewConfigService(a.Config).Start(ctx, a.Bus.NewConnection("config"))
	if err := a.Metrics.Start(ctx, a.Bus.NewConnection("metrics")); err != nil {
		a.log.WithError(err).Error("metrics service failed to start")
	}
	a.Loop.Run(ctx)
}

// Close releases device handles in reverse bring-up order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.WithError(err).Warn("close failed")
		}
	}
	a.closers = nil
}
