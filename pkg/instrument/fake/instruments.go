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
	"time"

	"github.com/astroufsc/fitsheaders/pkg/coord"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
)

var (
	_ instrument.Camera         = (*Camera)(nil)
	_ instrument.Dome           = (*Dome)(nil)
	_ instrument.Focuser        = (*Focuser)(nil)
	_ instrument.Telescope      = (*Telescope)(nil)
	_ instrument.Site           = (*Site)(nil)
	_ instrument.WeatherStation = (*WeatherStation)(nil)
	_ instrument.SeeingMonitor  = (*SeeingMonitor)(nil)
)

// Camera is an in-memory camera.
type Camera struct {
	Base
	Physical      instrument.Size
	Pixels        instrument.PixelSize
	Frame         instrument.FrameInfo
	Readout       instrument.ReadoutMode
	CurrentFilter string
}

func (c *Camera) PhysicalSize(_ context.Context) (instrument.Size, error) {
	return c.Physical, c.Fail("PhysicalSize")
}

func (c *Camera) PixelSize(_ context.Context) (instrument.PixelSize, error) {
	return c.Pixels, c.Fail("PixelSize")
}

func (c *Camera) ExtraHeaderInfo(_ context.Context) (instrument.FrameInfo, error) {
	return c.Frame, c.Fail("ExtraHeaderInfo")
}

func (c *Camera) ReadoutModeInfo(_ context.Context, binning, _ string) (instrument.ReadoutMode, error) {
	mode := c.Readout
	if binning != "" {
		mode.Binning = binning
	}
	return mode, c.Fail("ReadoutModeInfo")
}

func (c *Camera) Filter(_ context.Context) (string, error) {
	return c.CurrentFilter, c.Fail("Filter")
}

// Dome is an in-memory dome.
type Dome struct {
	Base
	SlitOpen     bool
	TrackingMode string
	Azimuth      coord.Angle
}

func (d *Dome) IsSlitOpen(_ context.Context) (bool, error) {
	return d.SlitOpen, d.Fail("IsSlitOpen")
}

func (d *Dome) Mode(_ context.Context) (string, error) {
	return d.TrackingMode, d.Fail("Mode")
}

func (d *Dome) Az(_ context.Context) (coord.Angle, error) {
	return d.Azimuth, d.Fail("Az")
}

// Focuser is an in-memory hexapod focuser.
type Focuser struct {
	Base
	Positions map[instrument.Axis]float64
	Offsets   map[instrument.Axis]float64
}

func (f *Focuser) Position(_ context.Context, axis instrument.Axis) (float64, error) {
	return f.Positions[axis], f.Fail("Position")
}

func (f *Focuser) Offset(_ context.Context, axis instrument.Axis) (float64, error) {
	return f.Offsets[axis], f.Fail("Offset")
}

// Telescope is an in-memory telescope.
type Telescope struct {
	Base
	Current     coord.Position
	Altitude    coord.Angle
	Azimuth     coord.Angle
	Target      coord.Position
	Parallactic coord.Angle
	SensorList  []instrument.Sensor
	Orient      instrument.Orientation
}

func (t *Telescope) RA(_ context.Context) (coord.Angle, error) {
	return t.Current.RA, t.Fail("RA")
}

func (t *Telescope) Dec(_ context.Context) (coord.Angle, error) {
	return t.Current.Dec, t.Fail("Dec")
}

func (t *Telescope) Alt(_ context.Context) (coord.Angle, error) {
	return t.Altitude, t.Fail("Alt")
}

func (t *Telescope) Az(_ context.Context) (coord.Angle, error) {
	return t.Azimuth, t.Fail("Az")
}

func (t *Telescope) TargetRaDec(_ context.Context) (coord.Position, error) {
	return t.Target, t.Fail("TargetRaDec")
}

func (t *Telescope) ParallacticAngle(_ context.Context) (coord.Angle, error) {
	return t.Parallactic, t.Fail("ParallacticAngle")
}

func (t *Telescope) Sensors(_ context.Context) ([]instrument.Sensor, error) {
	return t.SensorList, t.Fail("Sensors")
}

func (t *Telescope) PierSideOrientation(_ context.Context) (instrument.Orientation, error) {
	return t.Orient, t.Fail("PierSideOrientation")
}

// Site is an in-memory site. All its data lives in Attributes.
type Site struct {
	Base
}

// WeatherStation is an in-memory weather station.
type WeatherStation struct {
	Base
	Wind        instrument.Quantity
	WindDir     instrument.Quantity
	RelHumidity instrument.Quantity
	Press       instrument.Quantity
	Temp        instrument.Quantity
}

func (w *WeatherStation) WindSpeed(_ context.Context) (instrument.Quantity, error) {
	return w.Wind, w.Fail("WindSpeed")
}

func (w *WeatherStation) WindDirection(_ context.Context) (instrument.Quantity, error) {
	return w.WindDir, w.Fail("WindDirection")
}

func (w *WeatherStation) Humidity(_ context.Context) (instrument.Quantity, error) {
	return w.RelHumidity, w.Fail("Humidity")
}

func (w *WeatherStation) Pressure(_ context.Context) (instrument.Quantity, error) {
	return w.Press, w.Fail("Pressure")
}

func (w *WeatherStation) Temperature(_ context.Context) (instrument.Quantity, error) {
	return w.Temp, w.Fail("Temperature")
}

// SeeingMonitor is an in-memory seeing monitor.
type SeeingMonitor struct {
	Base
	SeeingArcsec float64
	FluxCounts   float64
	Observed     time.Time
}

func (s *SeeingMonitor) Seeing(_ context.Context) (float64, error) {
	return s.SeeingArcsec, s.Fail("Seeing")
}

func (s *SeeingMonitor) Flux(_ context.Context) (float64, error) {
	return s.FluxCounts, s.Fail("Flux")
}

func (s *SeeingMonitor) ObsTime(_ context.Context) (time.Time, error) {
	return s.Observed, s.Fail("ObsTime")
}
