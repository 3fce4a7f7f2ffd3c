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

package poller

import (
	"context"
	"log/slog"
	"time"
)

// Run refreshes once immediately, then on every interval tick until ctx is
// cancelled. Cycles are serialized: a long-running refresh simply causes
// the missed ticks to be dropped. A failed cycle is logged and the loop
// continues; only cancellation terminates Run.
func (p *Poller) Run(ctx context.Context, interval time.Duration) error {
	slog.Info("starting refresh scheduler", "interval", interval)

	p.refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopping")
			return ctx.Err()
		case d := <-p.intervalCh:
			slog.Info("refresh interval updated", "interval", d)
			ticker.Reset(d)
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// SetInterval updates the tick interval of a running scheduler. Safe to
// call from other goroutines; the latest value wins.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	// Replace any pending update rather than blocking.
	select {
	case <-p.intervalCh:
	default:
	}
	p.intervalCh <- d
}

// refresh runs one cycle and absorbs its error so the scheduler keeps
// going. Cancellation is left for the Run select to observe.
func (p *Poller) refresh(ctx context.Context) {
	start := time.Now()
	if err := p.Refresh(ctx); err != nil {
		if ctx.Err() == nil {
			slog.Error("refresh cycle failed", "error", err, "elapsed", time.Since(start))
		}
		return
	}
	slog.Debug("refresh cycle complete", "elapsed", time.Since(start))
	p.fireReady()
}
