// Package logx builds the process logger from configuration.
package logx

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"envpaper-go/errcode"
	"envpaper-go/types"
)

// New returns a logger writing to w. An empty level means info and an empty
// format means text.
func New(cfg types.LogConfig, w io.Writer) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(w)

	level := logrus.InfoLevel
	if cfg.Level != "" {
		lv, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errcode.Wrap(errcode.InvalidParams, "log.level", err)
		}
		level = lv
	}
	l.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "log.format", Msg: cfg.Format}
	}
	return l, nil
}
