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

package metadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/exposure"
	"github.com/astroufsc/fitsheaders/pkg/header"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
	"github.com/astroufsc/fitsheaders/pkg/instrument/fake"
)

func TestResolveBinding(t *testing.T) {
	tests := []struct {
		name    string
		slots   Slots
		want    Binding
		wantErr string
	}{
		{
			name:  "single camera",
			slots: Slots{instrument.KindCamera: "/Camera/0"},
			want:  Binding{Kind: instrument.KindCamera, Location: "/Camera/0"},
		},
		{
			name: "single seeing monitor among nulls",
			slots: Slots{
				instrument.KindCamera:        "",
				instrument.KindTelescope:     "  ",
				instrument.KindSeeingMonitor: "/DIMM/0",
			},
			want: Binding{Kind: instrument.KindSeeingMonitor, Location: "/DIMM/0"},
		},
		{
			name:    "none",
			slots:   Slots{},
			wantErr: "at least one instrument required",
		},
		{
			name:    "all null",
			slots:   Slots{instrument.KindDome: "", instrument.KindSite: ""},
			wantErr: "at least one instrument required",
		},
		{
			name:    "two",
			slots:   Slots{instrument.KindDome: "/Dome/0", instrument.KindFocuser: "/Focuser/0"},
			wantErr: "only one instrument allowed",
		},
		{
			name:    "unknown slot",
			slots:   Slots{"filterwheel": "/FW/0"},
			wantErr: "unknown instrument slot",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBinding("/Headers/0", tt.slots)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeConfiguration))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBindingEveryKind(t *testing.T) {
	for _, k := range instrument.Kinds {
		t.Run(k.String(), func(t *testing.T) {
			b, err := ResolveBinding("/Headers/0", Slots{k: "/X/0"})
			require.NoError(t, err)
			assert.Equal(t, k, b.Kind)
		})
	}
}

func TestNewProfile(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"headers", ProfileHeaders, false},
		{"", ProfileHeaders, false},
		{"T80S", ProfileT80S, false},
		{"t80sheaders", ProfileT80S, false},
		{"lsst", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfile(tt.name, nil)
			if tt.wantErr {
				assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}

// recordingProfile answers every kind with a single card naming it.
type recordingProfile struct {
	calls []instrument.Kind
}

func (r *recordingProfile) record(k instrument.Kind) ([]header.Entry, error) {
	r.calls = append(r.calls, k)
	return []header.Entry{header.New("KIND", k.String(), "")}, nil
}

func (r *recordingProfile) Name() string { return "recording" }

func (r *recordingProfile) Camera(context.Context, instrument.Camera, exposure.Request) ([]header.Entry, error) {
	return r.record(instrument.KindCamera)
}

func (r *recordingProfile) Dome(context.Context, instrument.Dome, exposure.Request) ([]header.Entry, error) {
	return r.record(instrument.KindDome)
}

func (r *recordingProfile) Focuser(context.Context, instrument.Focuser, exposure.Request) ([]header.Entry, error) {
	return r.record(instrument.KindFocuser)
}

func (r *recordingProfile) Telescope(context.Context, instrument.Telescope, exposure.Request) ([]header.Entry, error) {
	return r.record(instrument.KindTelescope)
}

func (r *recordingProfile) Site(context.Context, instrument.Site, exposure.Request) ([]header.Entry, error) {
	return r.record(instrument.KindSite)
}

func (r *recordingProfile) WeatherStation(context.Context, instrument.WeatherStation, exposure.Request) ([]header.Entry, error) {
	return r.record(instrument.KindWeatherStation)
}

func (r *recordingProfile) SeeingMonitor(context.Context, instrument.SeeingMonitor, exposure.Request) ([]header.Entry, error) {
	return r.record(instrument.KindSeeingMonitor)
}

func demoHandle(k instrument.Kind) instrument.Handle {
	now := time.Now()
	switch k {
	case instrument.KindCamera:
		return fake.NewCamera("/Camera/0", now)
	case instrument.KindDome:
		return fake.NewDome("/Dome/0")
	case instrument.KindFocuser:
		return fake.NewFocuser("/Focuser/0")
	case instrument.KindTelescope:
		return fake.NewTelescope("/Telescope/0")
	case instrument.KindSite:
		return fake.NewSite("/Site/0")
	case instrument.KindWeatherStation:
		return fake.NewWeatherStation("/WeatherStation/0")
	default:
		return fake.NewSeeingMonitor("/SeeingMonitor/0", now)
	}
}

func TestDispatchMatchesKind(t *testing.T) {
	for _, k := range instrument.Kinds {
		t.Run(k.String(), func(t *testing.T) {
			rec := &recordingProfile{}
			derive, err := Dispatch(rec, k, demoHandle(k))
			require.NoError(t, err)

			entries, err := derive(context.Background(), exposure.Request{Type: "object"})
			require.NoError(t, err)
			assert.Equal(t, []instrument.Kind{k}, rec.calls)
			assert.Equal(t, k.String(), entries[0].Any())
		})
	}
}

func TestDispatchMismatch(t *testing.T) {
	_, err := Dispatch(&recordingProfile{}, instrument.KindCamera, fake.NewDome("/Dome/0"))
	assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeDispatch))

	_, err = Dispatch(&recordingProfile{}, instrument.Kind("filterwheel"), fake.NewDome("/Dome/0"))
	assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeDispatch))
}

func TestNewRequiresResolver(t *testing.T) {
	_, err := New(Slots{instrument.KindCamera: "/Camera/0"})
	assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeConfiguration))
}

func TestNewConfigurationError(t *testing.T) {
	_, err := New(Slots{}, WithResolver(fake.NewResolver()))
	assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeConfiguration))
}

func TestProviderLifecycle(t *testing.T) {
	dome := fake.NewDome("/Dome/0")
	p, err := New(Slots{instrument.KindDome: dome.Location()},
		WithLocation("/Headers/dome"),
		WithManager("192.168.10.10", 7666),
		WithResolver(fake.NewResolver(dome)))
	require.NoError(t, err)

	assert.Equal(t, "192.168.10.10:7666/Headers/dome", p.CallbackAddress())
	assert.Equal(t, ProfileHeaders, p.Profile())
	assert.False(t, p.Available())

	ctx := context.Background()
	require.NoError(t, p.Start(ctx))
	assert.True(t, p.Available())
	assert.Equal(t, []string{"192.168.10.10:7666/Headers/dome"}, dome.Registrations())

	entries, err := p.GetMetadata(ctx, exposure.Request{Type: "object"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DOME_MDL", "DOME_TYP", "DOME_TRK", "DOME_SLT"}, header.Keywords(entries))

	// Start twice does not register twice.
	require.NoError(t, p.Start(ctx))
	assert.Len(t, dome.Registrations(), 1)

	require.NoError(t, p.Stop(ctx))
	assert.Equal(t, []string{"192.168.10.10:7666/Headers/dome", ""}, dome.Registrations())

	require.NoError(t, p.Stop(ctx))
	assert.Len(t, dome.Registrations(), 2)
}

func TestProviderCallbackWithoutManager(t *testing.T) {
	p, err := New(Slots{instrument.KindSite: "/Site/0"},
		WithLocation("/Headers/site"),
		WithResolver(fake.NewResolver()))
	require.NoError(t, err)
	assert.Equal(t, "/Headers/site", p.CallbackAddress())
}

func TestProviderUnreachable(t *testing.T) {
	tests := []struct {
		name     string
		resolver instrument.Resolver
	}{
		{"not resolvable", fake.NewResolver()},
		{"ping fails", func() instrument.Resolver {
			tel := fake.NewTelescope("/Telescope/0")
			tel.PingErr = errors.New("connection refused")
			return fake.NewResolver(tel)
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(Slots{instrument.KindTelescope: "/Telescope/0"}, WithResolver(tt.resolver))
			require.NoError(t, err)

			require.NoError(t, p.Start(context.Background()))
			assert.False(t, p.Available())

			_, err = p.GetMetadata(context.Background(), exposure.Request{Type: "object"})
			assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeUnreachable))

			assert.NoError(t, p.Stop(context.Background()))
		})
	}
}

func TestProviderRegistrationFailure(t *testing.T) {
	cam := fake.NewCamera("/Camera/0", time.Now())
	cam.Errors = map[string]error{"SetMetadataMethod": errors.New("read-only proxy")}

	p, err := New(Slots{instrument.KindCamera: cam.Location()}, WithResolver(fake.NewResolver(cam)))
	require.NoError(t, err)

	err = p.Start(context.Background())
	require.Error(t, err)
	assert.True(t, fherrors.IsCode(err, fherrors.ErrCodeUnreachable))
	assert.False(t, p.Available())

	// A later Start retries the registration.
	delete(cam.Errors, "SetMetadataMethod")
	require.NoError(t, p.Start(context.Background()))
	assert.True(t, p.Available())
	assert.Equal(t, []string{p.CallbackAddress()}, cam.Registrations())
}

func TestProviderTelemetryErrorPropagates(t *testing.T) {
	boom := fherrors.New(fherrors.ErrCodeTelemetryUnavailable, "slit sensor offline")
	dome := fake.NewDome("/Dome/0")
	p, err := New(Slots{instrument.KindDome: dome.Location()}, WithResolver(fake.NewResolver(dome)))
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	dome.Errors = map[string]error{"IsSlitOpen": boom}
	_, err = p.GetMetadata(context.Background(), exposure.Request{Type: "object"})
	assert.Same(t, boom, err)
}

func TestProviderIdempotent(t *testing.T) {
	tel := fake.NewTelescope("/Telescope/0")
	profile, err := NewProfile(ProfileT80S, nil)
	require.NoError(t, err)
	p, err := New(Slots{instrument.KindTelescope: tel.Location()},
		WithProfile(profile),
		WithResolver(fake.NewResolver(tel)))
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	req := exposure.Request{ExpTime: 10, Type: "object"}
	first, err := p.GetMetadata(context.Background(), req)
	require.NoError(t, err)
	second, err := p.GetMetadata(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProviderMetrics(t *testing.T) {
	foc := fake.NewFocuser("/Focuser/metrics")
	p, err := New(Slots{instrument.KindFocuser: foc.Location()}, WithResolver(fake.NewResolver(foc)))
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))

	assert.Equal(t, 1.0, testutil.ToFloat64(instrumentAvailable.WithLabelValues("focuser", "/Focuser/metrics")))

	before := testutil.ToFloat64(metadataRequestsTotal.WithLabelValues(ProfileHeaders, "focuser", "OK"))
	_, err = p.GetMetadata(context.Background(), exposure.Request{Type: "object"})
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metadataRequestsTotal.WithLabelValues(ProfileHeaders, "focuser", "OK")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metadataEntries.WithLabelValues(ProfileHeaders, "focuser")))

	foc.Errors = map[string]error{"Position": fherrors.New(fherrors.ErrCodeTelemetryUnavailable, "x")}
	before = testutil.ToFloat64(metadataRequestsTotal.WithLabelValues(ProfileHeaders, "focuser", "TELEMETRY_UNAVAILABLE"))
	_, err = p.GetMetadata(context.Background(), exposure.Request{Type: "object"})
	require.Error(t, err)
	assert.Equal(t, before+1,
		testutil.ToFloat64(metadataRequestsTotal.WithLabelValues(ProfileHeaders, "focuser", "TELEMETRY_UNAVAILABLE")))
}
