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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prtg-exporter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultRefreshIntervalSeconds, cfg.RefreshIntervalSeconds)
	assert.Equal(t, 120*time.Second, cfg.RefreshInterval())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server: https://prtg.example.com
username: monitor
passhash: "12345678"
port: 9800
refreshIntervalSeconds: 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://prtg.example.com", cfg.Server)
	assert.Equal(t, "monitor", cfg.Username)
	assert.Equal(t, "12345678", cfg.Passhash)
	assert.Equal(t, 9800, cfg.Port)
	assert.Equal(t, time.Minute, cfg.RefreshInterval())
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `server: https://prtg.example.com`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultRefreshIntervalSeconds, cfg.RefreshIntervalSeconds)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, "{not yaml")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PRTG_SERVER", "https://env.example.com")
	t.Setenv("PRTG_PASSHASH", "from-env")
	t.Setenv("PRTG_PORT", "9999")

	path := writeConfig(t, `
server: https://prtg.example.com
port: 9800
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Server)
	assert.Equal(t, "from-env", cfg.Passhash)
	assert.Equal(t, 9999, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) { c.Server = "https://prtg.example.com" },
		},
		{
			name:    "missing server",
			mutate:  func(_ *Config) {},
			wantErr: true,
		},
		{
			name: "port out of range",
			mutate: func(c *Config) {
				c.Server = "https://prtg.example.com"
				c.Port = 70000
			},
			wantErr: true,
		},
		{
			name: "non-positive interval",
			mutate: func(c *Config) {
				c.Server = "https://prtg.example.com"
				c.RefreshIntervalSeconds = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:                   DefaultPort,
				RefreshIntervalSeconds: DefaultRefreshIntervalSeconds,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, `
server: https://prtg.example.com
refreshIntervalSeconds: 120
`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 1)
	go func() {
		_ = Watch(ctx, path, func(cfg *Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before rewriting.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`
server: https://prtg.example.com
refreshIntervalSeconds: 30
`), 0o600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 30, cfg.RefreshIntervalSeconds)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not observed")
	}
}

func TestWatchKeepsPreviousConfigOnBadReload(t *testing.T) {
	path := writeConfig(t, `server: https://prtg.example.com`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	go func() {
		_ = Watch(ctx, path, func(cfg *Config) { reloaded <- cfg })
	}()

	time.Sleep(100 * time.Millisecond)

	// Invalid YAML must not reach onChange.
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, reloaded)

	// A subsequent good write does.
	require.NoError(t, os.WriteFile(path, []byte(`server: https://fixed.example.com`), 0o600))
	select {
	case cfg := <-reloaded:
		assert.Equal(t, "https://fixed.example.com", cfg.Server)
	case <-time.After(5 * time.Second):
		t.Fatal("recovered config change not observed")
	}
}
