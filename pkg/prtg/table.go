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
	"encoding/json"
	"fmt"
	"io"
)

// tableResponse models the table.json envelope. PRTG nests rows under a key
// named after the requested content type, so sensor queries populate
// Sensors and channel queries populate Channels.
type tableResponse struct {
	Sensors  []tableRow `json:"sensors"`
	Channels []tableRow `json:"channels"`
}

// rows returns whichever container the server populated; an empty slice
// when neither is present.
func (t *tableResponse) rows() []tableRow {
	if len(t.Sensors) > 0 {
		return t.Sensors
	}
	return t.Channels
}

// tableRow is the superset of the columns requested by the sensor and
// channel queries. Go's JSON decoding matches keys case-insensitively,
// which tolerates the casing differences between PRTG versions.
type tableRow struct {
	ObjID        int64    `json:"objid"`
	Device       string   `json:"device"`
	Probe        string   `json:"probe"`
	Group        string   `json:"group"`
	Sensor       string   `json:"sensor"`
	Name         string   `json:"name"`
	Unit         string   `json:"unit"`
	LastValue    string   `json:"lastvalue"`
	LastValueRaw rawValue `json:"lastvalue_raw"`
}

// rawValue accepts PRTG's loosely typed lastvalue_raw column, which arrives
// as a JSON number or a string depending on server version and sensor type.
type rawValue struct {
	num   float64
	str   string
	isNum bool
}

func (v *rawValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = rawValue{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &v.str)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("lastvalue_raw: %w", err)
	}
	v.num = f
	v.isNum = true
	return nil
}

func decodeTable(r io.Reader, tr *tableResponse) error {
	return json.NewDecoder(r).Decode(tr)
}
