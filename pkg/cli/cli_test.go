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

package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/astroufsc/fitsheaders/pkg/config"
	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/header"
	"github.com/astroufsc/fitsheaders/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{name: "yaml", format: "yaml", wantFormat: serializer.FormatYAML},
		{name: "json", format: "json", wantFormat: serializer.FormatJSON},
		{name: "table", format: "table", wantFormat: serializer.FormatTable},
		{name: "xml", format: "xml", wantErr: true},
		{name: "empty", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if tt.wantErr {
						assert.Error(t, err)
						return nil
					}
					assert.NoError(t, err)
					assert.Equal(t, tt.wantFormat, got)
					return nil
				},
			}

			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
		})
	}
}

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	return newRootCmd().Run(context.Background(), append([]string{name}, args...))
}

func readEntries(t *testing.T, path string) []header.Entry {
	t.Helper()
	entries, err := serializer.FromFile[[]header.Entry](path)
	require.NoError(t, err)
	return *entries
}

func TestMetadataCommandFake(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		first string
		has   string
	}{
		{
			name:  "generic dome",
			args:  []string{"--kind", "dome"},
			first: "DOME_MDL",
			has:   "DOME_SLT",
		},
		{
			name:  "t80s telescope",
			args:  []string{"--kind", "telescope", "--profile", "t80s"},
			first: "TELESCOP",
			has:   "HIERARCH T80S DPR CATG",
		},
		{
			name:  "generic camera",
			args:  []string{"--kind", "camera", "--exptime", "30", "--type", "flat"},
			first: "DATE-OBS",
			has:   "CCD-TEMP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "entries.json")
			args := append([]string{"metadata", "--fake", "--format", "json", "--output", out}, tt.args...)
			require.NoError(t, runRoot(t, args...))

			entries := readEntries(t, out)
			require.NotEmpty(t, entries)
			assert.Equal(t, tt.first, entries[0].Keyword)
			assert.True(t, header.Has(entries, tt.has), "missing %s in %v", tt.has, header.Keywords(entries))
		})
	}
}

func TestMetadataCommandRequestFile(t *testing.T) {
	dir := t.TempDir()
	reqPath := filepath.Join(dir, "exposure.yaml")
	require.NoError(t, os.WriteFile(reqPath, []byte("exptime: 12.5\ntype: dark\nshutter: CLOSE\n"), 0o600))

	out := filepath.Join(dir, "entries.json")
	require.NoError(t, runRoot(t, "metadata", "--fake", "--kind", "camera",
		"--request", reqPath, "--format", "json", "--output", out))

	entries := readEntries(t, out)
	exptime, ok := header.Find(entries, "EXPTIME")
	require.True(t, ok)
	assert.InDelta(t, 12.5, exptime.Any(), 1e-9)
	imagetyp, _ := header.Find(entries, "IMAGETYP")
	assert.Equal(t, "dark", imagetyp.Any())
	shutter, _ := header.Find(entries, "SHUTTER")
	assert.Equal(t, "CLOSE", shutter.Any())
}

func TestMetadataCommandWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "headersd.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
profile: t80s
instruments:
  weatherstation: /Meteo/0
`), 0o600))

	out := filepath.Join(dir, "entries.yaml")
	require.NoError(t, runRoot(t, "--config", cfgPath, "metadata", "--fake", "--format", "yaml", "--output", out))

	entries := readEntries(t, out)
	assert.Equal(t, []string{
		"HIERARCH T80S GEN AMBI WIND SPDMEAN",
		"HIERARCH T80S GEN AMBI WIND DIRMEAN",
		"HIERARCH T80S GEN AMBI RHUMMEAN",
		"HIERARCH T80S GEN AMBI PRESMEAN",
		"HIERARCH T80S GEN AMBI TEMPMEAN",
	}, header.Keywords(entries))
}

func TestMetadataCommandErrors(t *testing.T) {
	t.Run("no config and no fake", func(t *testing.T) {
		t.Setenv("HEADERSD_CONFIG", "")
		err := runRoot(t, "metadata")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration file is required")
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := runRoot(t, "metadata", "--fake", "--kind", "filterwheel")
		assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeConfiguration))
	})

	t.Run("unknown profile", func(t *testing.T) {
		err := runRoot(t, "metadata", "--fake", "--profile", "lsst")
		assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeConfiguration))
	})

	t.Run("negative exptime", func(t *testing.T) {
		err := runRoot(t, "metadata", "--fake", "--exptime=-1")
		assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeInvalidRequest))
	})

	t.Run("unknown format", func(t *testing.T) {
		err := runRoot(t, "metadata", "--fake", "--format", "xml")
		assert.Error(t, err)
	})
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "headersd.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
manager:
  host: 192.168.10.10
  port: 7666
instruments:
  dome: /Dome/0
`), 0o600))

	out := filepath.Join(dir, "check.json")
	require.NoError(t, runRoot(t, "--config", cfgPath, "check", "--format", "json", "--output", out))

	res, err := serializer.FromFile[CheckResult](out)
	require.NoError(t, err)
	assert.Equal(t, CheckResult{
		Location:   "/Headers/dome",
		Profile:    "headers",
		Kind:       "dome",
		Instrument: "/Dome/0",
		Callback:   "192.168.10.10:7666/Headers/dome",
		Manager:    "http://127.0.0.1:7666",
	}, *res)
}

func TestServeCallbackUsesListenPort(t *testing.T) {
	t.Setenv(config.EnvPort, "9000")
	cfgPath := filepath.Join(t.TempDir(), "headersd.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
location: /Headers/telescope
manager:
  host: 10.0.0.1
instruments:
  telescope: /Telescope/0
`), 0o600))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	p, err := newProvider(cfg, remoteResolver(cfg))
	require.NoError(t, err)

	assert.Equal(t, 9000, serverConfig(cfg).Port)
	assert.Equal(t, "10.0.0.1:9000/Headers/telescope", p.CallbackAddress())
}

func TestCheckCommandRejectsInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "headersd.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("instruments: {camera: /Camera/0, dome: /Dome/0}\n"), 0o600))

	err := runRoot(t, "--config", cfgPath, "check")
	require.Error(t, err)
	assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeConfiguration))
	assert.Contains(t, err.Error(), "only one instrument allowed")
}
