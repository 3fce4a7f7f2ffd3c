/*
Copyright © 2025 Netgauge Authors
SPDX-License-Identifier: Apache-2.0
*/
package main

import (
	"github.com/netgauge/prtg-exporter/pkg/cli"
)

func main() {
	cli.Execute()
}
