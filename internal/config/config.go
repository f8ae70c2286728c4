// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config defines the global configuration structure
type Config struct {
	Serial SerialConfig `mapstructure:"serial"`
	Poll   PollConfig   `mapstructure:"poll"`
	Log    LogConfig    `mapstructure:"log"`
}

// LogConfig defines logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	File  string `mapstructure:"file"`  // Log file path
}

// SerialConfig defines RTU settings
type SerialConfig struct {
	Device    string        `mapstructure:"device"`
	BaudRate  int           `mapstructure:"baud_rate"`
	DataBits  int           `mapstructure:"data_bits"`
	Parity    string        `mapstructure:"parity"`
	StopBits  int           `mapstructure:"stop_bits"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RqstPause time.Duration `mapstructure:"rqst_pause"` // Pause after each transmitted frame

	// RS485 specific
	RS485              bool          `mapstructure:"rs485"`
	DelayRtsBeforeSend time.Duration `mapstructure:"delay_rts_before_send"`
	DelayRtsAfterSend  time.Duration `mapstructure:"delay_rts_after_send"`
	RtsHighDuringSend  bool          `mapstructure:"rts_high_during_send"`
	RtsHighAfterSend   bool          `mapstructure:"rts_high_after_send"`
	RxDuringTx         bool          `mapstructure:"rx_during_tx"`
}

// PollConfig defines the sampling loop: which values to read from
// which devices, and how often.
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Tasks    []TaskConfig  `mapstructure:"tasks"`
}

// TaskConfig defines one read issued every polling cycle.
type TaskConfig struct {
	Name         string `mapstructure:"name"`          // Optional name for logging
	DeviceID     int    `mapstructure:"device_id"`     // Target device address (1-247)
	Table        string `mapstructure:"table"`         // "coils", "discrete", "holding", "input"
	StartAddress int    `mapstructure:"start_address"` // First coil/register address
	Count        int    `mapstructure:"count"`         // Number of elements to read
	Signed       bool   `mapstructure:"signed"`        // Register interpretation for logging
}

// LoadConfig loads configuration from file
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/modbusmaster/")
		v.AddConfigPath("$HOME/.modbusmaster")
		v.AddConfigPath(".")
	}

	// Set defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("poll.interval", 5*time.Second)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to found config file: %w", err)
		}

		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	fixupSerial(&config.Serial)
	if config.Poll.Interval <= 0 {
		config.Poll.Interval = 5 * time.Second
	}

	for i := range config.Poll.Tasks {
		if err := validateTask(&config.Poll.Tasks[i]); err != nil {
			return nil, fmt.Errorf("poll task %d: %w", i, err)
		}
	}

	return &config, nil
}

func fixupSerial(s *SerialConfig) {
	s.Parity = strings.ToUpper(s.Parity)
	if s.BaudRate == 0 {
		s.BaudRate = 9600
	}
	if s.Timeout == 0 {
		s.Timeout = 500 * time.Millisecond
	}
	if s.RqstPause == 0 {
		s.RqstPause = 5 * time.Millisecond
	}
}

func validateTask(t *TaskConfig) error {
	if t.DeviceID < 1 || t.DeviceID > 247 {
		return fmt.Errorf("device_id %d out of range [1, 247]", t.DeviceID)
	}
	switch t.Table {
	case "coils", "discrete", "holding", "input":
	default:
		return fmt.Errorf("unknown table %q", t.Table)
	}
	if t.Count < 1 {
		return fmt.Errorf("count %d must be positive", t.Count)
	}
	return nil
}
