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

// Package prtg is a client for the PRTG Network Monitor table API.
//
// It covers the two queries the exporter needs: the full sensor listing and
// the channel listing for one sensor, both served by GET /api/table.json.
// Authentication uses the username/passhash query parameters PRTG expects.
//
// Requests are retried with exponential backoff on transport errors and
// server (5xx) responses. Client (4xx) responses are never retried; the
// fetchers surface them as fetch errors with the response status.
package prtg
