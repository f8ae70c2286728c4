// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ffutop/modbus-master/internal/config"
	"github.com/ffutop/modbus-master/internal/poller"
	"github.com/ffutop/modbus-master/master"
	"github.com/ffutop/modbus-master/transport/rtu"
)

func main() {
	configFile := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load Configuration
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	slog.Info("Starting Modbus master...", "device", cfg.Serial.Device, "baud_rate", cfg.Serial.BaudRate)

	if len(cfg.Poll.Tasks) == 0 {
		slog.Error("No poll tasks configured. Exiting.")
		os.Exit(1)
	}

	port := rtu.NewSerialPort(cfg.Serial)
	defer port.Close()

	tr := rtu.NewTransport(port, cfg.Serial.Timeout)
	tr.SetPause(cfg.Serial.RqstPause)

	client := master.NewClient(tr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := poller.New(client, cfg.Poll)
	if err := p.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Poller stopped with error", "err", err)
		os.Exit(1)
	}

	slog.Info("Shutting down...")
	slog.Info("Goodbye.")
}

func setupLogger(cfg config.LogConfig) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.File != "" && cfg.File != "-" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Printf("Failed to open log file, falling back to stdout: %v\n", err)
			handler = slog.NewTextHandler(os.Stdout, opts)
		} else {
			handler = slog.NewTextHandler(f, opts)
		}
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
