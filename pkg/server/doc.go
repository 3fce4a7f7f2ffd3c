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

// Package server implements the exporter's HTTP listener.
//
// It serves the Prometheus scrape endpoint on /metrics plus /health and
// /ready probes. The scrape path runs through a small middleware chain:
// panic recovery, request-ID tracking, token-bucket rate limiting
// (golang.org/x/time/rate), request logging, and RED metrics. Scrape
// requests only read current registry state; they never block on or
// trigger a refresh.
//
// The listener binds all interfaces on the configured port (default 9705)
// and shuts down gracefully when the run context is cancelled.
package server
