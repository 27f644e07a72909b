//go:build rp2040 || rp2350

package main

import (
	"context"
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"envpaper-go/services/app"
	"envpaper-go/services/config"
	"envpaper-go/x/logx"
)

const board = "pico"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	uart := uartx.UART0
	if err := uart.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	}); err != nil {
		println("uart:", err.Error())
		return
	}

	cfg, err := config.Load(board, nil)
	if err != nil {
		println("config:", err.Error())
		return
	}
	log, err := logx.New(cfg.Log, uart)
	if err != nil {
		println("log:", err.Error())
		return
	}

	a := app.New(cfg, log)
	a.Run(context.Background())
}
