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

// Package poller drives refresh cycles against the PRTG API and writes the
// results into the exporter registry.
//
// One cycle fetches the sensor listing, then fans out channel fetches with
// a fixed concurrency ceiling. A failing channel fetch is logged and
// counted but never fails the cycle or other sensors; a failing sensor
// listing fails the whole cycle. The scheduler runs cycles on a fixed
// interval and never exits on a cycle failure.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/netgauge/prtg-exporter/pkg/exporter"
	"github.com/netgauge/prtg-exporter/pkg/prtg"
)

// maxConcurrentChannelFetches bounds how many channel queries may be in
// flight at once, keeping load on the PRTG server predictable.
const maxConcurrentChannelFetches = 6

// API is the subset of the PRTG client the poller uses.
type API interface {
	Sensors(ctx context.Context) ([]prtg.Sensor, error)
	Channels(ctx context.Context, sensorID int64) ([]prtg.Channel, error)
}

// Poller orchestrates refresh cycles.
type Poller struct {
	api     API
	metrics *exporter.Exporter

	// onReady, if set, is invoked once after the first successful refresh.
	onReady    func()
	readyFired bool

	intervalCh chan time.Duration
}

// New creates a Poller writing into metrics.
func New(api API, metrics *exporter.Exporter) *Poller {
	return &Poller{
		api:        api,
		metrics:    metrics,
		intervalCh: make(chan time.Duration, 1),
	}
}

// OnReady registers a callback fired after the first successful refresh.
// Must be set before Run is called.
func (p *Poller) OnReady(fn func()) {
	p.onReady = fn
}

// Refresh runs one full cycle: fetch the sensor listing, publish per-sensor
// samples, then fetch every sensor's channels with bounded concurrency and
// publish per-channel samples. It returns an error only when the sensor
// listing itself fails or the context is cancelled; per-sensor channel
// failures are isolated. Refresh returns once every scheduled channel fetch
// has finished.
func (p *Poller) Refresh(ctx context.Context) error {
	start := time.Now()

	sensors, err := p.api.Sensors(ctx)
	if err != nil {
		p.metrics.IncRefreshErrors()
		return fmt.Errorf("refresh: %w", err)
	}

	for _, s := range sensors {
		if s.HasValue {
			p.metrics.SetSensor(s.ID, s.Device, s.Name, s.Probe, s.Group, s.Value)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChannelFetches)
	for _, s := range sensors {
		g.Go(func() error {
			return p.collectChannels(gctx, s)
		})
	}
	if err := g.Wait(); err != nil {
		// Only cancellation propagates out of the group.
		return fmt.Errorf("refresh: %w", err)
	}

	p.metrics.ObserveRefresh(time.Since(start), len(sensors))
	return nil
}

// collectChannels fetches one sensor's channels and publishes their
// samples. Fetch failures are logged and counted; only context
// cancellation is returned so it can abort the remaining cycle.
func (p *Poller) collectChannels(ctx context.Context, s prtg.Sensor) error {
	channels, err := p.api.Channels(ctx, s.ID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		slog.Warn("channel fetch failed",
			"sensor_id", s.ID,
			"device", s.Device,
			"error", err)
		p.metrics.IncChannelFetchFailures()
		return nil
	}

	for _, ch := range channels {
		if !ch.HasValue {
			continue
		}
		p.metrics.SetChannel(s.ID, s.Device, s.Name, ch.Name, ch.Unit, s.Probe, s.Group, ch.Value)
	}
	return nil
}

func (p *Poller) fireReady() {
	if p.onReady != nil && !p.readyFired {
		p.readyFired = true
		p.onReady()
	}
}
