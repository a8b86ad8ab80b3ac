// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/exposure"
	"github.com/astroufsc/fitsheaders/pkg/header"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
	"github.com/astroufsc/fitsheaders/pkg/instrument/fake"
	"github.com/astroufsc/fitsheaders/pkg/metadata"
)

type stubProvider struct {
	location  string
	available bool
	startErr  error
	entries   []header.Entry
	err       error

	mu      sync.Mutex
	started int
	stopped int
	last    exposure.Request
}

func (p *stubProvider) Location() string { return p.location }
func (p *stubProvider) Available() bool  { return p.available }

func (p *stubProvider) Start(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started++
	return p.startErr
}

func (p *stubProvider) Stop(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped++
	return nil
}

func (p *stubProvider) GetMetadata(_ context.Context, req exposure.Request) ([]header.Entry, error) {
	p.mu.Lock()
	p.last = req
	p.mu.Unlock()
	return p.entries, p.err
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestMetadataEndpoint(t *testing.T) {
	p := &stubProvider{
		location:  "/Headers/0",
		available: true,
		entries: header.NewList(2).
			AddString("FILTER", "R", "Filter used").
			AddFloat64("EXPTIME", 30.5, "").
			Entries(),
	}
	h := New(p).Handler()

	rec := post(t, h, "/Headers/0", `{"exptime": 30.5, "type": "object", "shutter": "OPEN"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var got []header.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"FILTER", "EXPTIME"}, header.Keywords(got))
	assert.Equal(t, exposure.Request{ExpTime: 30.5, Type: "object", Shutter: "OPEN"}, p.last)
}

func TestMetadataEndpointIgnoresImageRequestKeys(t *testing.T) {
	p := &stubProvider{
		location:  "/Headers/0",
		available: true,
		entries:   header.NewList(1).AddString("FILTER", "R", "Filter used").Entries(),
	}
	h := New(p).Handler()

	body := `{"exptime": 10, "type": "object", "shutter": "OPEN", "frames": 1,
		"filename": "$DATE-$TIME", "object_name": "M42", "filter": "R"}`
	rec := post(t, h, "/Headers/0", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, exposure.Request{ExpTime: 10, Type: "object", Shutter: "OPEN"}, p.last)
}

func TestMetadataEndpointRejectsBadRequests(t *testing.T) {
	p := &stubProvider{location: "/Headers/0", available: true}
	h := New(p).Handler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"exptime":`},
		{"negative exptime", `{"exptime": -1, "type": "flat"}`},
		{"missing type", `{"exptime": 1}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/Headers/0", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, string(fherrors.ErrCodeInvalidRequest), decodeError(t, rec).Code)
		})
	}
}

func TestMetadataEndpointMapsProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unreachable", fherrors.New(fherrors.ErrCodeUnreachable, "instrument unavailable"), http.StatusServiceUnavailable},
		{"telemetry", fherrors.New(fherrors.ErrCodeTelemetryUnavailable, "failed to read alt"), http.StatusBadGateway},
		{"dispatch", fherrors.New(fherrors.ErrCodeDispatch, "no derivation"), http.StatusInternalServerError},
		{"unstructured", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{location: "/Headers/0", available: true, err: tt.err}
			rec := post(t, New(p).Handler(), "/Headers/0", `{"exptime": 1, "type": "object"}`)

			require.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, "/Headers/0", resp.Details["location"])
			assert.Equal(t, rec.Header().Get("X-Request-Id"), resp.RequestID)
		})
	}
}

func TestMetadataEndpointMethodNotAllowed(t *testing.T) {
	p := &stubProvider{location: "/Headers/0", available: true}
	rec := get(t, New(p).Handler(), "/Headers/0")

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	assert.Equal(t, string(fherrors.ErrCodeMethodNotAllowed), decodeError(t, rec).Code)
}

func TestSystemEndpoints(t *testing.T) {
	p := &stubProvider{location: "/Headers/0", available: true}
	s := New(p)
	h := s.Handler()

	t.Run("health", func(t *testing.T) {
		rec := get(t, h, "/health")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"healthy"`)
	})

	t.Run("not ready before start", func(t *testing.T) {
		rec := get(t, h, "/ready")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "initializing")
	})

	t.Run("ready", func(t *testing.T) {
		s.SetReady(true)
		defer s.SetReady(false)
		rec := get(t, h, "/ready")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready when instrument unavailable", func(t *testing.T) {
		s.SetReady(true)
		defer s.SetReady(false)
		p.available = false
		defer func() { p.available = true }()

		rec := get(t, h, "/ready")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "instrument unavailable")
	})

	t.Run("default route lists metadata location", func(t *testing.T) {
		rec := get(t, h, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "POST /Headers/0")
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := get(t, h, "/nope")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, string(fherrors.ErrCodeNotFound), decodeError(t, rec).Code)
	})

	t.Run("metrics", func(t *testing.T) {
		post(t, h, "/Headers/0", `{"exptime": 1, "type": "object"}`)
		rec := get(t, h, "/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "headers_http_requests_total")
	})
}

func TestStartFailsWhenProviderDoesNotStart(t *testing.T) {
	p := &stubProvider{
		location: "/Headers/0",
		startErr: fherrors.New(fherrors.ErrCodeUnreachable, "failed to register metadata method"),
	}
	cfg := NewConfig()
	cfg.Port = 0

	err := New(p, WithConfig(cfg)).Start(context.Background())
	require.Error(t, err)
	assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeUnreachable))
}

func TestStartAndShutdown(t *testing.T) {
	p := &stubProvider{location: "/Headers/0", available: true}
	cfg := NewConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = time.Second
	s := New(p, WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, s.isReady, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, 1, p.started)
	assert.Equal(t, 1, p.stopped)
	assert.False(t, s.isReady())
}

func TestServerWithMetadataProvider(t *testing.T) {
	dome := fake.NewDome(fake.DomeLocation)
	p, err := metadata.New(metadata.Slots{instrument.KindDome: dome.Location()},
		metadata.WithLocation("/Headers/dome"),
		metadata.WithManager("127.0.0.1", 7667),
		metadata.WithResolver(fake.NewResolver(dome)),
	)
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	h := New(p).Handler()

	rec := post(t, h, "/Headers/dome", `{"exptime": 10, "type": "object", "shutter": "OPEN"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got []header.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"DOME_MDL", "DOME_TYP", "DOME_TRK", "DOME_SLT"}, header.Keywords(got))
	slit, _ := header.Find(got, "DOME_SLT")
	assert.Equal(t, "Open", slit.Any())

	dome.Errors = map[string]error{
		"IsSlitOpen": fherrors.New(fherrors.ErrCodeTelemetryUnavailable, "slit sensor offline"),
	}
	rec = post(t, h, "/Headers/dome", `{"exptime": 10, "type": "object"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, string(fherrors.ErrCodeTelemetryUnavailable), resp.Code)
	assert.True(t, resp.Retryable)

	assert.Equal(t, []string{"127.0.0.1:7667/Headers/dome"}, dome.Registrations())
}

func TestNameAndVersionOptions(t *testing.T) {
	p := &stubProvider{location: "/T80SHeaders/0"}
	h := New(p, WithName("headersd"), WithVersion("1.2.3")).Handler()

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "headersd", info["name"])
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "/T80SHeaders/0", info["location"])
	assert.Equal(t, false, info["available"])
}
