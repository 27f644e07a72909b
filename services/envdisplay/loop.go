// Package envdisplay keeps an e-paper panel in step with a temperature and
// humidity sensor. A value is redrawn only when its text changes, and every
// redraw first erases the old glyphs so the panel does not ghost.
package envdisplay

import (
	"context"
	"image/color"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"envpaper-go/bus"
	"envpaper-go/errcode"
	"envpaper-go/types"
)

// DefaultInterval is the polling period when Config.Interval is zero.
const DefaultInterval = 1000 * time.Millisecond

var topicTick = bus.T("env", "tick")

// TopicTick is where the loop publishes one types.TickReport per tick.
func TopicTick() bus.Topic { return topicTick }

// Sensor samples the environment. Sample blocks until a reading or an
// error is available.
type Sensor interface {
	Sample() (types.Reading, error)
}

type State uint8

const (
	Uninitialized State = iota
	FirstDraw
	Polling
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case FirstDraw:
		return "first_draw"
	case Polling:
		return "polling"
	default:
		return "unknown"
	}
}

type Config struct {
	Interval time.Duration
	// Widgets are all widgets that take part in the first draw.
	Widgets []types.WidgetID
	// Values are the dynamic widgets indexed by types.FieldID.
	Values     [types.NumFields]types.WidgetID
	Foreground color.RGBA
	Background color.RGBA
	Logger     logrus.FieldLogger
	// Conn, when set, receives a TickReport on TopicTick after each tick.
	Conn *bus.Connection
}

// Snapshot is a copy of the loop's state for observers.
type Snapshot struct {
	State     State
	LastKnown types.Reading
	Fields    [types.NumFields]DynamicField
}

// SyncLoop owns the render memory of both value fields and drives the
// sensor and surface it borrows. All work runs inline on the calling
// goroutine; mu only serialises Tick against Snapshot and Start.
type SyncLoop struct {
	mu       sync.Mutex
	sensor   Sensor
	surface  Surface
	renderer *GhostClearRenderer
	cache    *ChangeCache
	widgets  []types.WidgetID
	interval time.Duration
	log      logrus.FieldLogger
	conn     *bus.Connection
	now      func() time.Time

	state    State
	last     types.Reading
	lastGood time.Time
}

func New(s Sensor, surface Surface, cfg Config) *SyncLoop {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Foreground == (color.RGBA{}) && cfg.Background == (color.RGBA{}) {
		cfg.Foreground = color.RGBA{A: 0xff}
		cfg.Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return &SyncLoop{
		sensor:   s,
		surface:  surface,
		renderer: NewGhostClearRenderer(surface, cfg.Foreground, cfg.Background),
		cache:    NewChangeCache(cfg.Values),
		widgets:  append([]types.WidgetID(nil), cfg.Widgets...),
		interval: cfg.Interval,
		log:      cfg.Logger.WithField("svc", "envdisplay"),
		conn:     cfg.Conn,
		now:      time.Now,
	}
}

// Start performs the first draw. Only the first call has any effect.
func (l *SyncLoop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.start()
}

func (l *SyncLoop) start() {
	if l.state != Uninitialized {
		return
	}
	l.state = FirstDraw
	for _, w := range l.widgets {
		l.surface.MarkDirty(w)
	}
	if err := l.surface.ForceSyncRefresh(); err != nil {
		l.log.WithError(err).Error("first draw refresh failed")
	}
	if err := l.surface.SetBlanking(false); err != nil {
		l.log.WithError(err).Error("unblank failed")
	}
	l.state = Polling
}

// Tick runs one polling iteration and returns its report. A tick on an
// uninitialised loop performs the first draw before sampling.
func (l *SyncLoop) Tick() types.TickReport {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.start()

	now := l.now()
	rep := types.TickReport{TS: now.UnixMilli()}

	r, err := l.sensor.Sample()
	if err == nil && !r.Valid {
		err = &errcode.E{C: errcode.SensorRead, Op: "sample", Msg: "invalid reading"}
	}
	if err != nil {
		since := "never"
		if !l.lastGood.IsZero() {
			since = humanize.RelTime(l.lastGood, now, "ago", "from now")
		}
		l.log.WithError(err).WithField("last_good", since).Warn("sensor read failed; keeping last values")
	} else {
		rep.Valid = true
		l.last = r
		l.lastGood = now
		for i := 0; i < types.NumFields; i++ {
			id := types.FieldID(i)
			d := l.cache.Evaluate(id, Format(id, r))
			if !d.Changed {
				continue
			}
			field := l.cache.Field(id)
			if err := l.renderer.Redraw(field.Widget, d.Old, d.New); err != nil {
				l.log.WithError(err).WithField("field", id.String()).Error("redraw failed")
				rep.Failed = append(rep.Failed, id)
				continue
			}
			l.cache.Commit(id, d.New)
			rep.Redrawn = append(rep.Redrawn, id)
		}
	}

	rep.Temperature = l.last.Temperature
	rep.Humidity = l.last.Humidity
	l.log.Infof("Temperature: %d C", l.last.Temperature)
	l.log.Infof("Humidity: %d %%", l.last.Humidity)

	if l.conn != nil {
		l.conn.Publish(l.conn.NewMessage(topicTick, rep, false))
	}
	return rep
}

// Run performs the first draw, then ticks once immediately and once per
// interval until ctx is cancelled. Cancellation is only observed between
// ticks.
func (l *SyncLoop) Run(ctx context.Context) {
	l.Start()
	tick := time.NewTicker(l.interval)
	defer tick.Stop()
	for {
		l.Tick()
		select {
		case <-ctx.Done():
			l.log.Info("stopping")
			return
		case <-tick.C:
		}
	}
}

func (l *SyncLoop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *SyncLoop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Snapshot{State: l.state, LastKnown: l.last}
	for i := range s.Fields {
		s.Fields[i] = l.cache.Field(types.FieldID(i))
	}
	return s
}
