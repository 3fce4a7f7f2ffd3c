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

// Package value normalizes the loosely formatted numeric strings the PRTG
// API returns for sensor and channel last values. Values arrive with
// trailing units ("12.5 kWh"), thousands separators ("1,234.5"), or a
// comma decimal separator from non-English server locales ("12,5").
package value

import (
	"strconv"
	"strings"
)

// Parse extracts a float from a PRTG-formatted value string. It returns
// false when the string holds no parseable numeric prefix, which callers
// treat as "no value" rather than an error.
func Parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	// Take the leading run of numeric characters and separators; anything
	// after it (units, words) is discarded.
	end := 0
	for ; end < len(s); end++ {
		c := s[end]
		if (c < '0' || c > '9') && c != '.' && c != ',' && c != '-' && c != '+' {
			break
		}
	}
	if end == 0 {
		return 0, false
	}
	num := s[:end]

	hasComma := strings.Contains(num, ",")
	hasDot := strings.Contains(num, ".")
	switch {
	case hasComma && !hasDot:
		// Comma is a decimal separator in locales that format "12,5".
		num = strings.ReplaceAll(num, ",", ".")
	case hasComma && hasDot:
		// Commas are thousands separators ("1,234.5").
		num = strings.ReplaceAll(num, ",", "")
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
