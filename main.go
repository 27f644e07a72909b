//go:build !(rp2040 || rp2350)

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"envpaper-go/services/app"
	"envpaper-go/services/config"
	"envpaper-go/services/sensor"
	"envpaper-go/x/logx"
)

func main() {
	board := flag.String("board", "sim", "embedded board config: "+strings.Join(config.Boards(), ", "))
	override := flag.String("config", "", "JSON file overlaid on the board config")
	level := flag.String("log-level", "", "override log.level (debug, info, warn, error)")
	sensorType := flag.String("sensor", "", "override sensor.type: "+strings.Join(sensor.Types(), ", "))
	flag.Parse()

	var raw []byte
	if *override != "" {
		b, err := os.ReadFile(*override)
		if err != nil {
			logrus.WithError(err).Fatal("read config override")
		}
		raw = b
	}

	cfg, err := config.Load(*board, raw)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if *level != "" {
		cfg.Log.Level = *level
	}
	if *sensorType != "" {
		cfg.Sensor.Type = *sensorType
	}

	log, err := logx.New(cfg.Log, os.Stderr)
	if err != nil {
		logrus.WithError(err).Fatal("configure logging")
	}
	log.WithFields(logrus.Fields{
		"board":   cfg.Board,
		"sensor":  cfg.Sensor.Type,
		"display": cfg.Display.Type,
	}).Info("boot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, log)
	defer a.Close()
	a.Run(ctx)
}
