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

package fake

import (
	"context"
	"sync"
	"time"

	"k8s.io/utils/ptr"

	"github.com/astroufsc/fitsheaders/pkg/coord"
	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
)

// Resolver resolves locations against a fixed set of in-memory handles.
type Resolver struct {
	mu      sync.RWMutex
	handles map[string]instrument.Handle
}

// NewResolver returns a resolver serving handles by their Location.
func NewResolver(handles ...instrument.Handle) *Resolver {
	r := &Resolver{handles: make(map[string]instrument.Handle, len(handles))}
	for _, h := range handles {
		r.Add(h)
	}
	return r
}

// Add registers h under its location, replacing any previous handle.
func (r *Resolver) Add(h instrument.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[h.Location()] = h
}

// Resolve returns the handle registered at location.
func (r *Resolver) Resolve(_ context.Context, kind instrument.Kind, location string) (instrument.Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[location]
	if !ok {
		return nil, fherrors.NewWithContext(fherrors.ErrCodeUnreachable,
			"instrument not found", map[string]any{"kind": kind.String(), "location": location})
	}
	return h, nil
}

// Default locations of the demo observatory.
const (
	CameraLocation         = "/FakeCamera/fake"
	DomeLocation           = "/FakeDome/fake"
	FocuserLocation        = "/FakeFocuser/fake"
	TelescopeLocation      = "/FakeTelescope/fake"
	SiteLocation           = "/Site/0"
	WeatherStationLocation = "/FakeWeatherStation/fake"
	SeeingMonitorLocation  = "/FakeSeeingMonitor/fake"
)

// Locations maps each kind to its demo observatory location.
var Locations = map[instrument.Kind]string{
	instrument.KindCamera:         CameraLocation,
	instrument.KindDome:           DomeLocation,
	instrument.KindFocuser:        FocuserLocation,
	instrument.KindTelescope:      TelescopeLocation,
	instrument.KindSite:           SiteLocation,
	instrument.KindWeatherStation: WeatherStationLocation,
	instrument.KindSeeingMonitor:  SeeingMonitorLocation,
}

// Observatory returns a resolver holding one demo instrument of every kind,
// observed at now.
func Observatory(now time.Time) *Resolver {
	return NewResolver(
		NewCamera(CameraLocation, now),
		NewDome(DomeLocation),
		NewFocuser(FocuserLocation),
		NewTelescope(TelescopeLocation),
		NewSite(SiteLocation),
		NewWeatherStation(WeatherStationLocation),
		NewSeeingMonitor(SeeingMonitorLocation, now),
	)
}

// NewHandle returns the demo instrument of kind served at location.
func NewHandle(kind instrument.Kind, location string, now time.Time) (instrument.Handle, error) {
	switch kind {
	case instrument.KindCamera:
		return NewCamera(location, now), nil
	case instrument.KindDome:
		return NewDome(location), nil
	case instrument.KindFocuser:
		return NewFocuser(location), nil
	case instrument.KindTelescope:
		return NewTelescope(location), nil
	case instrument.KindSite:
		return NewSite(location), nil
	case instrument.KindWeatherStation:
		return NewWeatherStation(location), nil
	case instrument.KindSeeingMonitor:
		return NewSeeingMonitor(location, now), nil
	}
	return nil, fherrors.NewWithContext(fherrors.ErrCodeConfiguration, "unknown instrument kind",
		map[string]any{"kind": kind.String()})
}

// NewCamera returns a 2048x2048 camera with 9 micron pixels behind a 1000 mm telescope.
func NewCamera(location string, frameStart time.Time) *Camera {
	return &Camera{
		Base: Base{
			Loc: location,
			Attributes: map[string]any{
				instrument.AttrCameraModel:          "Fake Cameras Inc.",
				instrument.AttrCCDModel:             "Fake CCD",
				instrument.AttrTelescopeFocalLength: 1000.0,
				instrument.AttrRotation:             0.0,
			},
		},
		Physical: instrument.Size{Width: 2048, Height: 2048},
		Pixels:   instrument.PixelSize{Width: 9, Height: 9},
		Frame: instrument.FrameInfo{
			StartTime:     ptr.To(frameStart.UTC()),
			Temperature:   ptr.To(-20.0),
			BinningFactor: ptr.To(1.0),
		},
		Readout:       instrument.ReadoutMode{Binning: "1x1", Width: 2048, Height: 2048},
		CurrentFilter: "R",
	}
}

// NewDome returns a tracking dome with an open slit.
func NewDome(location string) *Dome {
	return &Dome{
		Base: Base{
			Loc: location,
			Attributes: map[string]any{
				instrument.AttrModel: "Fake Domes Inc.",
				instrument.AttrStyle: "Classic",
				instrument.AttrMode:  "Track",
			},
		},
		SlitOpen:     true,
		TrackingMode: "track",
		Azimuth:      coord.FromDegrees(92.5),
	}
}

// NewFocuser returns a hexapod focuser.
func NewFocuser(location string) *Focuser {
	return &Focuser{
		Base: Base{
			Loc:        location,
			Attributes: map[string]any{instrument.AttrModel: "Fake Focuser"},
		},
		Positions: map[instrument.Axis]float64{
			instrument.AxisX: 0.1, instrument.AxisY: -0.2, instrument.AxisZ: 11.5,
			instrument.AxisU: 0.01, instrument.AxisV: -0.01,
		},
		Offsets: map[instrument.Axis]float64{
			instrument.AxisX: 0, instrument.AxisY: 0, instrument.AxisZ: 0.05,
			instrument.AxisU: 0, instrument.AxisV: 0,
		},
	}
}

// NewTelescope returns a telescope tracking a target 60 degrees above the horizon.
func NewTelescope(location string) *Telescope {
	target := coord.Position{RA: coord.FromHours(5.5), Dec: coord.FromDegrees(-30)}
	return &Telescope{
		Base: Base{
			Loc: location,
			Attributes: map[string]any{
				instrument.AttrModel:          "Fake Telescopes Inc.",
				instrument.AttrOptics:         "Ritchey-Chretien",
				instrument.AttrMount:          "Alt-Az",
				instrument.AttrAperture:       826.0,
				instrument.AttrFocalLength:    3720.0,
				instrument.AttrFocalReduction: 1.0,
			},
		},
		Current:     target,
		Altitude:    coord.FromDegrees(60),
		Azimuth:     coord.FromDegrees(180),
		Target:      target,
		Parallactic: coord.FromDegrees(12.5),
		SensorList: []instrument.Sensor{
			{Name: "TM1", Value: 12.1},
			{Name: "TM2", Value: 12.4},
			{Name: "FrontRing", Value: 11.9},
			{Name: "TubeRod", Value: 12.0},
		},
		Orient: instrument.Orientation{PierSide: "EAST", Mode: "NORMAL"},
	}
}

// NewSite returns the Cerro Tololo site.
func NewSite(location string) *Site {
	return &Site{
		Base: Base{
			Loc: location,
			Attributes: map[string]any{
				instrument.AttrName:      "CTIO",
				instrument.AttrLatitude:  "-30:10:04.31",
				instrument.AttrLongitude: "-70:48:20.48",
				instrument.AttrAltitude:  2187.0,
			},
		},
	}
}

// NewWeatherStation returns a weather station on a calm night.
func NewWeatherStation(location string) *WeatherStation {
	return &WeatherStation{
		Base:        Base{Loc: location, Attributes: map[string]any{instrument.AttrModel: "Fake Weather"}},
		Wind:        instrument.Quantity{Value: 3.2, Unit: "m/s"},
		WindDir:     instrument.Quantity{Value: 270, Unit: "deg"},
		RelHumidity: instrument.Quantity{Value: 18, Unit: "%"},
		Press:       instrument.Quantity{Value: 780.4, Unit: "hPa"},
		Temp:        instrument.Quantity{Value: 11.3, Unit: "deg_C"},
	}
}

// NewSeeingMonitor returns a DIMM seeing monitor that measured at observed.
func NewSeeingMonitor(location string, observed time.Time) *SeeingMonitor {
	return &SeeingMonitor{
		Base: Base{
			Loc: location,
			Attributes: map[string]any{
				instrument.AttrModel: "Fake DIMM",
				instrument.AttrType:  "DIMM",
			},
		},
		SeeingArcsec: 0.85,
		FluxCounts:   12000,
		Observed:     observed.UTC(),
	}
}
