// Copyright (c) 2025, Netgauge Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the exporter's runtime configuration. Values come
// from an optional YAML file, overridden by environment variables, which
// CLI flags override in turn.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when fields are absent.
const (
	DefaultPort                   = 9705
	DefaultRefreshIntervalSeconds = 120
)

// Config maps 1:1 to the YAML config file.
type Config struct {
	// Server is the base URL of the PRTG server, e.g. https://prtg.example.com.
	Server string `yaml:"server"`

	// Username authenticates API queries.
	Username string `yaml:"username"`

	// Passhash is the opaque credential token PRTG expects in place of a
	// password. Forwarded verbatim.
	Passhash string `yaml:"passhash"`

	// Port is the listen port for the scrape endpoint.
	Port int `yaml:"port"`

	// RefreshIntervalSeconds controls how often the PRTG server is polled.
	RefreshIntervalSeconds int `yaml:"refreshIntervalSeconds"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
}

// Default returns a Config with defaults and environment overrides applied.
func Default() *Config {
	cfg := &Config{
		Port:                   DefaultPort,
		RefreshIntervalSeconds: DefaultRefreshIntervalSeconds,
		LogLevel:               "info",
	}
	cfg.applyEnv()
	return cfg
}

// Load reads a YAML config file, then applies defaults and environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.RefreshIntervalSeconds == 0 {
		cfg.RefreshIntervalSeconds = DefaultRefreshIntervalSeconds
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides fields from PRTG_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("PRTG_SERVER"); v != "" {
		c.Server = v
	}
	if v := os.Getenv("PRTG_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("PRTG_PASSHASH"); v != "" {
		c.Passhash = v
	}
	if v := os.Getenv("PRTG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("PRTG_REFRESH_INTERVAL_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			c.RefreshIntervalSeconds = seconds
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the config is usable.
func (c *Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("server is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RefreshIntervalSeconds < 1 {
		return fmt.Errorf("refreshIntervalSeconds must be positive, got %d", c.RefreshIntervalSeconds)
	}
	return nil
}

// RefreshInterval returns the poll interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}
