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

package prtg

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/netgauge/prtg-exporter/pkg/value"
)

// sensorCount caps the sensor listing at one page. PRTG returns at most
// this many rows per table query.
const sensorCount = 10000

// Sensor is one monitored entity as reported by the sensor listing.
// Value/HasValue hold the normalized last value; HasValue is false when
// neither encoding was parseable.
type Sensor struct {
	ID       int64
	Device   string
	Probe    string
	Group    string
	Name     string
	Value    float64
	HasValue bool
}

// Sensors fetches the full sensor listing in a single paged query.
func (c *Client) Sensors(ctx context.Context) ([]Sensor, error) {
	params := url.Values{
		"content": {"sensors"},
		"columns": {"objid,device,probe,group,sensor,lastvalue,lastvalue_raw"},
		"count":   {strconv.Itoa(sensorCount)},
	}

	tr, err := c.table(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch sensors: %w", err)
	}

	rows := tr.rows()
	sensors := make([]Sensor, 0, len(rows))
	for _, row := range rows {
		s := Sensor{
			ID:     row.ObjID,
			Device: row.Device,
			Probe:  row.Probe,
			Group:  row.Group,
			Name:   row.Sensor,
		}
		s.Value, s.HasValue = resolveSensorValue(row)
		sensors = append(sensors, s)
	}
	return sensors, nil
}

// resolveSensorValue normalizes the formatted last value, falling back to
// the raw encoding when the formatted one does not parse.
func resolveSensorValue(row tableRow) (float64, bool) {
	if v, ok := value.Parse(row.LastValue); ok {
		return v, true
	}
	if row.LastValueRaw.isNum {
		return row.LastValueRaw.num, true
	}
	return value.Parse(row.LastValueRaw.str)
}
