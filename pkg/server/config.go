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

package server

import (
	"time"

	"golang.org/x/time/rate"
)

// Config holds listener configuration.
type Config struct {
	// Server identity, reported on the default route and in logs.
	Name    string
	Version string

	// Address is the bind address; empty means all interfaces.
	Address string
	Port    int

	// Rate limiting of scrape requests.
	RateLimit      rate.Limit
	RateLimitBurst int

	// Timeouts.
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults for the scrape listener.
func DefaultConfig() *Config {
	return &Config{
		Name:            "prtg-exporter",
		Version:         "dev",
		Address:         "",
		Port:            9705,
		RateLimit:       50, // scrapes/s; generous for any sane scrape interval
		RateLimitBurst:  100,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}
