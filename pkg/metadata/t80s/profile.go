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

package t80s

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/astroufsc/fitsheaders/pkg/coord"
	"github.com/astroufsc/fitsheaders/pkg/exposure"
	"github.com/astroufsc/fitsheaders/pkg/header"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
	"github.com/astroufsc/fitsheaders/pkg/wcs"
)

// Name is the profile name used in configuration.
const Name = "t80s"

// Undefined is the placeholder written for sensor readings the telescope did
// not report.
const Undefined = " INDEF "

// Hierarchical keyword roots.
const (
	telPrefix  = header.HierarchPrefix + "T80S TEL "
	ambiPrefix = header.HierarchPrefix + "T80S GEN AMBI "
	dprPrefix  = header.HierarchPrefix + "T80S DPR "
)

// Profile derives header cards for the T80-South telescope.
type Profile struct{}

// New returns a T80S profile.
func New() *Profile {
	return &Profile{}
}

// Name returns the profile name.
func (p *Profile) Name() string {
	return Name
}

// Camera returns the filter only. The T80Cam driver writes every other
// camera card during readout.
func (p *Profile) Camera(ctx context.Context, cam instrument.Camera, _ exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting camera header", "location", cam.Location())

	filter, err := cam.Filter(ctx)
	if err != nil {
		return nil, err
	}
	return header.NewList(1).
		AddString("FILTER", filter, "Filter used for this observation").
		Entries(), nil
}

// fixed renders hexapod readings the way the T80S archive expects them.
func fixed(v float64) string {
	return fmt.Sprintf(" %f ", v)
}

// Focuser returns the hexapod position and offset on every axis plus the focus.
func (p *Profile) Focuser(ctx context.Context, foc instrument.Focuser, _ exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting focuser header", "location", foc.Location())

	positions := make(map[instrument.Axis]float64, len(instrument.Axes))
	offsets := make(map[instrument.Axis]float64, len(instrument.Axes))
	for _, axis := range instrument.Axes {
		pos, err := foc.Position(ctx, axis)
		if err != nil {
			return nil, err
		}
		off, err := foc.Offset(ctx, axis)
		if err != nil {
			return nil, err
		}
		positions[axis] = pos
		offsets[axis] = off
	}

	l := header.NewList(12)
	for _, axis := range instrument.Axes {
		l.AddString(telPrefix+"FOCU HEX "+string(axis), fixed(positions[axis]),
			fmt.Sprintf(" Current hexapod position in %s %s ", axisLabel(axis), axisUnit(axis)))
	}
	for _, axis := range instrument.Axes {
		l.AddString(telPrefix+"FOCU HEX D"+string(axis), fixed(offsets[axis]),
			fmt.Sprintf(" Current hexapod offset in %s %s ", axisLabel(axis), axisUnit(axis)))
	}
	return l.
		AddString(telPrefix+"FOCU LEN", fixed(positions[instrument.AxisZ]), " Current focus position (mm) ").
		AddString(telPrefix+"FOCU VALUE", fixed(offsets[instrument.AxisZ]), " Current focus offset (mm) ").
		Entries(), nil
}

// axisLabel is x, y, z for translations and U, V for tilts.
func axisLabel(axis instrument.Axis) string {
	switch axis {
	case instrument.AxisU, instrument.AxisV:
		return string(axis)
	default:
		return strings.ToLower(string(axis))
	}
}

func axisUnit(axis instrument.Axis) string {
	switch axis {
	case instrument.AxisU, instrument.AxisV:
		return "(degree)"
	default:
		return "(mm)"
	}
}

// Dome returns the tracking mode, slit state and dome azimuth.
func (p *Profile) Dome(ctx context.Context, dome instrument.Dome, _ exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting dome header", "location", dome.Location())

	open, err := dome.IsSlitOpen(ctx)
	if err != nil {
		return nil, err
	}
	mode, err := dome.Mode(ctx)
	if err != nil {
		return nil, err
	}
	az, err := dome.Az(ctx)
	if err != nil {
		return nil, err
	}

	return header.NewList(3).
		AddString("DOME_TRK", titleCase(mode), "Dome Tracking/Standing").
		AddString("DOME_SLT", instrument.SlitState(open), "Dome slit status").
		AddString(telPrefix+"DOME AZ", az.Decimal(), "dome azimuth").
		Entries(), nil
}

// titleCase renders driver enum names such as "TRACK" as "Track".
// Casers are stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// sensorTemps picks the mirror, front ring and tube rod temperatures out of
// the telescope sensor list.
type sensorTemps struct {
	primary, secondary, frontRing, tubeRod any
}

func readSensors(sensors []instrument.Sensor) sensorTemps {
	t := sensorTemps{primary: Undefined, secondary: Undefined, frontRing: Undefined, tubeRod: Undefined}
	for _, s := range sensors {
		switch {
		case strings.Contains(s.Name, "TM1"):
			t.primary = s.Value
		case strings.Contains(s.Name, "TM2"):
			t.secondary = s.Value
		case strings.Contains(s.Name, "FrontRing"):
			t.frontRing = s.Value
		case strings.Contains(s.Name, "TubeRod"):
			t.tubeRod = s.Value
		}
	}
	return t
}

// Telescope returns the pointing, airmass, WCS reference value and the T80S
// telescope status cards.
func (p *Profile) Telescope(ctx context.Context, tel instrument.Telescope, req exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting telescope header", "location", tel.Location())

	sensors, err := tel.Sensors(ctx)
	if err != nil {
		return nil, err
	}
	temps := readSensors(sensors)

	ra, err := tel.RA(ctx)
	if err != nil {
		return nil, err
	}
	dec, err := tel.Dec(ctx)
	if err != nil {
		return nil, err
	}
	alt, err := tel.Alt(ctx)
	if err != nil {
		return nil, err
	}
	az, err := tel.Az(ctx)
	if err != nil {
		return nil, err
	}
	slog.Debug("telescope getters done", "ra", ra.HMS(), "dec", dec.DMS())

	model, err := instrument.ValueAttribute(ctx, tel, instrument.AttrModel)
	if err != nil {
		return nil, err
	}
	focal, err := instrument.ValueAttribute(ctx, tel, instrument.AttrFocalLength)
	if err != nil {
		return nil, err
	}
	parang, err := tel.ParallacticAngle(ctx)
	if err != nil {
		return nil, err
	}
	orientation, err := tel.PierSideOrientation(ctx)
	if err != nil {
		return nil, err
	}

	airmass := wcs.Airmass(alt)

	return header.NewList(31).
		Add("TELESCOP", model, "Telescope Model").
		AddString("RA", ra.HMS(), "Right ascension of the observed object").
		AddString("DEC", dec.DMS(), "Declination of the observed object").
		AddString("ALT", alt.DMS(), "Custom. Altitude of the observed object").
		AddString("AZ", az.DMS(), "Custom. Azimuth of the observed object").
		AddFloat64("AIRMASS", airmass, "air mass at the end of observation").
		Append(wcs.ReferenceValue(coord.Position{RA: ra, Dec: dec}, "")...).
		AddFloat64("EQUINOX", 2000.0, "coordinate epoch").
		AddString(telPrefix+"OPER", "CHIMERA", "").
		Add(telPrefix+"FOCU LEN", focal, " Focal length (mm)").
		AddString(telPrefix+"EL START", alt.Decimal(), "").
		AddString(telPrefix+"AZ START", az.Decimal(), "").
		AddString(telPrefix+"PARANG START", parang.Decimal(), " Parallactic angle at start (deg)").
		AddFloat64(telPrefix+"AIRM START", airmass, " Airmass at start of exposure").
		AddAny(telPrefix+"MIRR S1 TEMP", temps.primary, " Primary mirror surface temperature").
		AddAny(telPrefix+"MIRR S2 TEMP", temps.secondary, " Secondary mirror surface temperature").
		AddAny(telPrefix+"FRONT RING TEMP", temps.frontRing, " Telescope front ring temperature").
		AddAny(telPrefix+"TUBE ROD TEMP", temps.tubeRod, " Telescope tube rod temperature").
		AddString(telPrefix+"POINT MODE", orientation.Mode, "").
		AddString(dprPrefix+"CATG", req.Category().String(), "").
		AddString(dprPrefix+"TYPE", req.Type, "").
		Entries(), nil
}

// WeatherStation returns the mean ambient readings.
func (p *Profile) WeatherStation(ctx context.Context, ws instrument.WeatherStation, _ exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting weather station header", "location", ws.Location())

	l := header.NewList(5)
	for _, card := range []struct {
		keyword string
		read    func(context.Context) (instrument.Quantity, error)
	}{
		{"WIND SPDMEAN", ws.WindSpeed},
		{"WIND DIRMEAN", ws.WindDirection},
		{"RHUMMEAN", ws.Humidity},
		{"PRESMEAN", ws.Pressure},
		{"TEMPMEAN", ws.Temperature},
	} {
		q, err := card.read(ctx)
		if err != nil {
			return nil, err
		}
		l.AddFloat64(ambiPrefix+card.keyword, q.Value, "")
	}
	return l.Entries(), nil
}

// SeeingMonitor returns the last seeing measurement.
func (p *Profile) SeeingMonitor(ctx context.Context, sm instrument.SeeingMonitor, _ exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting seeing monitor header", "location", sm.Location())

	model, err := instrument.StringAttribute(ctx, sm, instrument.AttrModel)
	if err != nil {
		return nil, err
	}
	typ, err := instrument.StringAttribute(ctx, sm, instrument.AttrType)
	if err != nil {
		return nil, err
	}
	seeing, err := sm.Seeing(ctx)
	if err != nil {
		return nil, err
	}
	flux, err := sm.Flux(ctx)
	if err != nil {
		return nil, err
	}
	obs, err := sm.ObsTime(ctx)
	if err != nil {
		return nil, err
	}

	return header.NewList(5).
		AddString("SEEMOD", model, "Seeing monitor Model").
		AddString("SEETYP", typ, "Seeing monitor type").
		AddFloat64("SEEVAL", seeing, "[arcsec] Seeing value").
		AddFloat64("SEEFLU", flux, "[counts] Star flux value").
		AddString("SEEDAT", obs.UTC().Format(header.TimeFormat), "UT time of the seeing observation").
		Entries(), nil
}

// Site returns the site name, position and time system.
func (p *Profile) Site(ctx context.Context, site instrument.Site, _ exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting site header", "location", site.Location())

	name, err := instrument.ValueAttribute(ctx, site, instrument.AttrName)
	if err != nil {
		return nil, err
	}
	lat, err := instrument.AngleAttribute(ctx, site, instrument.AttrLatitude)
	if err != nil {
		return nil, err
	}
	lon, err := instrument.AngleAttribute(ctx, site, instrument.AttrLongitude)
	if err != nil {
		return nil, err
	}
	alt, err := instrument.StringAttribute(ctx, site, instrument.AttrAltitude)
	if err != nil {
		return nil, err
	}

	return header.NewList(8).
		Add("ORIGIN", name, "Site name (in config)").
		AddString("LATITUDE", lat.DMS(), "Site latitude").
		AddString("LONGITUD", lon.DMS(), "Site longitude").
		AddString("ALTITUDE", alt, "Site altitude").
		AddString("TIMESYS", "UTC", "").
		AddString(telPrefix+"GEOELEV", alt, "").
		AddString(telPrefix+"GEOLAT", lat.Decimal(), "").
		AddString(telPrefix+"GEOLON", lon.Decimal(), "").
		Entries(), nil
}
