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
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netgauge/prtg-exporter/pkg/exporter"
	"github.com/netgauge/prtg-exporter/pkg/prtg"
)

// fakePRTG simulates the table API for two sensors with two channels each.
func fakePRTG(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/table.json", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "monitor", q.Get("username"))
		require.Equal(t, "secret", q.Get("passhash"))

		switch q.Get("content") {
		case "sensors":
			fmt.Fprint(w, `{"sensors":[
				{"objid":100,"device":"fw01","probe":"local probe","group":"dc1","sensor":"Ping","lastvalue":"4 msec","lastvalue_raw":"4.27"},
				{"objid":200,"device":"sw02","probe":"local probe","group":"dc1","sensor":"Traffic","lastvalue":"1,234.5 kbit/s","lastvalue_raw":1234.5}
			]}`)
		case "channels":
			switch q.Get("id") {
			case "100":
				fmt.Fprint(w, `{"channels":[
					{"objid":0,"name":"Ping Time","unit":"ms","lastvalue":"4 ms","lastvalue_raw":4.27},
					{"objid":1,"name":"Downtime","unit":"%","lastvalue":"0 %","lastvalue_raw":0}
				]}`)
			case "200":
				fmt.Fprint(w, `{"channels":[
					{"objid":0,"name":"Traffic In","unit":"kbit/s","lastvalue":"800 kbit/s","lastvalue_raw":800.2},
					{"objid":1,"name":"Traffic Out","unit":"kbit/s","lastvalue":"120 kbit/s","lastvalue_raw":119.9}
				]}`)
			default:
				http.NotFound(w, r)
			}
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestEndToEndScrape(t *testing.T) {
	upstream := fakePRTG(t)
	defer upstream.Close()

	client := prtg.New(upstream.URL, "monitor", "secret")
	e := exporter.New()
	p := New(client, e)

	require.NoError(t, p.Refresh(context.Background()))

	// Scrape the exposition endpoint like Prometheus would.
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	e.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(strings.NewReader(w.Body.String()))
	require.NoError(t, err)

	sensors := families["prtg_sensor_last_value"]
	require.NotNil(t, sensors)
	assert.Len(t, sensors.GetMetric(), 2)

	channels := families["prtg_channel_last_value"]
	require.NotNil(t, channels)
	require.Len(t, channels.GetMetric(), 4)

	byChannel := map[string]float64{}
	for _, m := range channels.GetMetric() {
		labels := labelMap(m)
		byChannel[labels["sensor_id"]+"/"+labels["channel"]] = m.GetGauge().GetValue()

		// Channel samples inherit the owning sensor's labels.
		switch labels["sensor_id"] {
		case "100":
			assert.Equal(t, "fw01", labels["device"])
			assert.Equal(t, "Ping", labels["sensor"])
		case "200":
			assert.Equal(t, "sw02", labels["device"])
			assert.Equal(t, "Traffic", labels["sensor"])
		}
	}

	assert.InDelta(t, 4.27, byChannel["100/Ping Time"], 1e-9)
	assert.InDelta(t, 0, byChannel["100/Downtime"], 1e-9)
	assert.InDelta(t, 800.2, byChannel["200/Traffic In"], 1e-9)
	assert.InDelta(t, 119.9, byChannel["200/Traffic Out"], 1e-9)
}
