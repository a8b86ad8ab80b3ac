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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
	"github.com/astroufsc/fitsheaders/pkg/metadata"
)

const t80sConfig = `
location: /T80SHeaders/telescope
profile: t80s
manager: {host: 192.168.10.10, port: 7666}
instruments:
  telescope: /Telescope/0
remote: {base_url: "http://192.168.10.10:7666", timeout: 3s}
server: {address: "0.0.0.0", port: 7700}
`

func TestReadFull(t *testing.T) {
	cfg, err := Read(strings.NewReader(t80sConfig))
	require.NoError(t, err)

	assert.Equal(t, "/T80SHeaders/telescope", cfg.Location)
	assert.Equal(t, metadata.ProfileT80S, cfg.Profile)
	assert.Equal(t, Manager{Host: "192.168.10.10", Port: 7666}, cfg.Manager)
	assert.Equal(t, "http://192.168.10.10:7666", cfg.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 7700, cfg.Server.Port)

	b, err := cfg.Binding()
	require.NoError(t, err)
	assert.Equal(t, metadata.Binding{Kind: instrument.KindTelescope, Location: "/Telescope/0"}, b)
}

func TestReadDefaults(t *testing.T) {
	cfg, err := Read(strings.NewReader("instruments:\n  camera: /Camera/0\n"))
	require.NoError(t, err)

	assert.Equal(t, "/Headers/camera", cfg.Location)
	assert.Equal(t, DefaultProfile, cfg.Profile)
	assert.Equal(t, DefaultManagerHost, cfg.Manager.Host)
	assert.Equal(t, DefaultServerPort, cfg.Manager.Port)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultRemoteURL, cfg.Remote.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
}

func TestReadPortFromEnv(t *testing.T) {
	t.Run("manager port follows listen port", func(t *testing.T) {
		t.Setenv(EnvPort, "9000")
		cfg, err := Read(strings.NewReader("server: {port: 7667}\ninstruments: {telescope: /Telescope/0}\n"))
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, 9000, cfg.Manager.Port)
	})

	t.Run("explicit manager port kept", func(t *testing.T) {
		t.Setenv(EnvPort, "9000")
		cfg, err := Read(strings.NewReader("manager: {port: 7666}\ninstruments: {telescope: /Telescope/0}\n"))
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, 7666, cfg.Manager.Port)
	})

	t.Run("invalid value ignored", func(t *testing.T) {
		t.Setenv(EnvPort, "invalid")
		cfg, err := Read(strings.NewReader("instruments: {telescope: /Telescope/0}\n"))
		require.NoError(t, err)
		assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	})
}

func TestDefaultLocationT80S(t *testing.T) {
	cfg, err := Read(strings.NewReader("profile: T80S\ninstruments: {seeingmonitor: /DIMM/0}\n"))
	require.NoError(t, err)
	assert.Equal(t, "/T80SHeaders/seeingmonitor", cfg.Location)
	assert.Equal(t, metadata.ProfileT80S, cfg.Profile)
}

func TestReadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"empty", "", "at least one instrument required"},
		{"no instrument", "profile: headers\n", "at least one instrument required"},
		{"two instruments", "instruments: {camera: /Camera/0, dome: /Dome/0}\n", "only one instrument allowed"},
		{"unknown instrument", "instruments: {filterwheel: /FW/0}\n", "filterwheel"},
		{"unknown profile", "profile: lsst\ninstruments: {camera: /Camera/0}\n", "unknown profile"},
		{"relative location", "location: Headers/0\ninstruments: {camera: /Camera/0}\n", "location must start"},
		{"root location", "location: /\ninstruments: {camera: /Camera/0}\n", "collides with a system route"},
		{"metrics location", "location: /metrics\ninstruments: {camera: /Camera/0}\n", "collides with a system route"},
		{"bad port", "server: {port: 70000}\ninstruments: {camera: /Camera/0}\n", "server port"},
		{"bad base url", "remote: {base_url: localhost}\ninstruments: {camera: /Camera/0}\n", "base_url"},
		{"bad yaml", "instruments: [", "failed to decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeConfiguration), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headersd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(t80sConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/T80SHeaders/telescope", cfg.Location)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeConfiguration))
}

func TestInstrumentsSet(t *testing.T) {
	for _, kind := range instrument.Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			var i Instruments
			require.NoError(t, i.Set(kind, "/Some/0"))
			assert.Equal(t, "/Some/0", i.Slots()[kind])
			assert.Len(t, i.Slots().Configured(), 1)
		})
	}

	var i Instruments
	assert.Error(t, i.Set(instrument.Kind("filterwheel"), "/FW/0"))
}
