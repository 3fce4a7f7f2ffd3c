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

// Package exporter owns the Prometheus registry the scrape endpoint serves.
//
// Two gauge families carry the PRTG data: one sample per sensor and one per
// channel, labeled with the sensor's placement (device, probe, group).
// Samples are upsert-only: a value that fails to parse or a fetch that
// fails leaves the previously published sample in place, so scrapes always
// see the last known good value. Samples are never evicted, even when the
// sensor disappears from the PRTG server, so the registry grows with the
// total number of label tuples ever seen.
package exporter

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "prtg"

// Exporter holds the current gauge samples and the self-instrumentation of
// the refresh loop. All methods are safe for concurrent use; label tuples
// are independent, so concurrent upserts need no caller coordination.
type Exporter struct {
	registry *prometheus.Registry

	sensorValue  *prometheus.GaugeVec
	channelValue *prometheus.GaugeVec

	refreshDuration      prometheus.Histogram
	refreshErrors        prometheus.Counter
	channelFetchFailures prometheus.Counter
	sensorsCollected     prometheus.Gauge
	lastRefresh          prometheus.Gauge
}

// New creates an Exporter with its own registry, including the standard Go
// and process collectors.
func New() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		sensorValue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sensor_last_value",
				Help:      "Last value reported by a PRTG sensor",
			},
			[]string{"sensor_id", "device", "sensor", "probe", "group"},
		),
		channelValue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "channel_last_value",
				Help:      "Last value reported by a PRTG sensor channel",
			},
			[]string{"sensor_id", "device", "sensor", "channel", "unit", "probe", "group"},
		),
		refreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "exporter_refresh_duration_seconds",
				Help:      "Duration of full refresh cycles",
				Buckets:   prometheus.DefBuckets,
			},
		),
		refreshErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exporter_refresh_errors_total",
				Help:      "Total number of refresh cycles that failed at the sensor listing",
			},
		),
		channelFetchFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exporter_channel_fetch_failures_total",
				Help:      "Total number of per-sensor channel fetches that failed",
			},
		),
		sensorsCollected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "exporter_sensors_collected",
				Help:      "Number of sensors returned by the last successful refresh",
			},
		),
		lastRefresh: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "exporter_last_refresh_timestamp_seconds",
				Help:      "Unix time of the last successful refresh",
			},
		),
	}

	e.registry.MustRegister(
		e.sensorValue,
		e.channelValue,
		e.refreshDuration,
		e.refreshErrors,
		e.channelFetchFailures,
		e.sensorsCollected,
		e.lastRefresh,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return e
}

// SetSensor upserts the per-sensor sample for one label tuple.
func (e *Exporter) SetSensor(sensorID int64, device, sensor, probe, group string, v float64) {
	e.sensorValue.WithLabelValues(
		strconv.FormatInt(sensorID, 10), device, sensor, probe, group,
	).Set(v)
}

// SetChannel upserts the per-channel sample for one label tuple.
func (e *Exporter) SetChannel(sensorID int64, device, sensor, channel, unit, probe, group string, v float64) {
	e.channelValue.WithLabelValues(
		strconv.FormatInt(sensorID, 10), device, sensor, channel, unit, probe, group,
	).Set(v)
}

// ObserveRefresh records the outcome of one completed refresh cycle.
func (e *Exporter) ObserveRefresh(d time.Duration, sensors int) {
	e.refreshDuration.Observe(d.Seconds())
	e.sensorsCollected.Set(float64(sensors))
	e.lastRefresh.SetToCurrentTime()
}

// IncRefreshErrors counts a refresh cycle that failed before any channel
// fetch was attempted.
func (e *Exporter) IncRefreshErrors() {
	e.refreshErrors.Inc()
}

// IncChannelFetchFailures counts one isolated per-sensor channel fetch
// failure.
func (e *Exporter) IncChannelFetchFailures() {
	e.channelFetchFailures.Inc()
}

// Registry exposes the underlying registry for test assertions.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler returns the scrape handler serving the registry's current state
// in the text exposition format. Scrapes only read registry state; they
// never trigger or wait on a refresh.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
