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

// channelCount caps the channel listing for one sensor.
const channelCount = 1000

// Channel is one sub-measurement of a sensor. Channels carry no identity of
// their own beyond the owning sensor id and their name.
type Channel struct {
	SensorID int64
	Name     string
	Unit     string
	Value    float64
	HasValue bool
}

// Channels fetches the channel rows for one sensor.
func (c *Client) Channels(ctx context.Context, sensorID int64) ([]Channel, error) {
	params := url.Values{
		"content": {"channels"},
		"columns": {"objid,name,unit,lastvalue,lastvalue_raw"},
		"count":   {strconv.Itoa(channelCount)},
		"id":      {strconv.FormatInt(sensorID, 10)},
	}

	tr, err := c.table(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch channels for sensor %d: %w", sensorID, err)
	}

	rows := tr.rows()
	channels := make([]Channel, 0, len(rows))
	for _, row := range rows {
		ch := Channel{
			SensorID: sensorID,
			Name:     row.Name,
			Unit:     row.Unit,
		}
		ch.Value, ch.HasValue = resolveChannelValue(row)
		channels = append(channels, ch)
	}
	return channels, nil
}

// resolveChannelValue picks the first usable encoding: the typed raw value,
// then the formatted string, then the raw value's string form.
func resolveChannelValue(row tableRow) (float64, bool) {
	if row.LastValueRaw.isNum {
		return row.LastValueRaw.num, true
	}
	if v, ok := value.Parse(row.LastValue); ok {
		return v, true
	}
	return value.Parse(row.LastValueRaw.str)
}
