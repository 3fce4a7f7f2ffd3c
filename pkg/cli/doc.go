/*
Copyright © 2025 Netgauge Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the prtg-exporter command line interface: flag and
// config handling, logging setup, and the wiring of the poller, registry,
// and HTTP listener under one signal-aware run group.
package cli
