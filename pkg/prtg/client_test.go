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
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGetRequest(t *testing.T, url string) func() (*http.Request, error) {
	t.Helper()
	return func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	}
}

func TestDoRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "user", "hash", WithBackoffBase(5*time.Millisecond))

	resp, err := c.do(context.Background(), newGetRequest(t, srv.URL))
	require.NoError(t, err)
	defer drain(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestDoExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "user", "hash", WithBackoffBase(time.Millisecond))

	_, err := c.do(context.Background(), newGetRequest(t, srv.URL))
	require.Error(t, err)
	assert.Equal(t, int32(4), attempts.Load(), "expected 1 attempt + 3 retries")
}

func TestDoBackoffDoubles(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	base := 40 * time.Millisecond
	c := New(srv.URL, "user", "hash", WithBackoffBase(base))

	start := time.Now()
	resp, err := c.do(context.Background(), newGetRequest(t, srv.URL))
	elapsed := time.Since(start)
	require.NoError(t, err)
	drain(resp.Body)

	// Two retries: base + 2*base.
	assert.GreaterOrEqual(t, elapsed, 3*base)
	assert.Less(t, elapsed, 10*base)
}

func TestDoReturnsClientErrorsWithoutRetry(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "user", "hash", WithBackoffBase(time.Millisecond))

	resp, err := c.do(context.Background(), newGetRequest(t, srv.URL))
	require.NoError(t, err)
	drain(resp.Body)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDoHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "user", "hash", WithBackoffBase(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.do(ctx, newGetRequest(t, srv.URL))
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("do did not return after cancellation")
	}
}

func TestDoRetriesTransportErrors(t *testing.T) {
	// A closed server yields connection-refused transport errors.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	url := srv.URL
	srv.Close()

	c := New(url, "user", "hash", WithBackoffBase(time.Millisecond))

	_, err := c.do(context.Background(), newGetRequest(t, url))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 attempts")
}

func TestSetCredentials(t *testing.T) {
	var seen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.URL.Query().Get("passhash"))
		_, _ = w.Write([]byte(`{"sensors":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "user", "old")

	_, err := c.Sensors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old", seen.Load())

	c.SetCredentials("user", "new")

	_, err = c.Sensors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", seen.Load())
}
