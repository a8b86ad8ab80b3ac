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

package generic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/astroufsc/fitsheaders/pkg/exposure"
	"github.com/astroufsc/fitsheaders/pkg/header"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
	"github.com/astroufsc/fitsheaders/pkg/wcs"
)

// Name is the profile name used in configuration.
const Name = "headers"

// commentPrefix marks every card this profile adds on top of the driver's own.
const commentPrefix = "Custom. "

// Option is a functional option for configuring Profile instances.
type Option func(*Profile)

// WithClock sets the clock used for DATE-OBS when the camera does not report
// the frame start time.
func WithClock(now func() time.Time) Option {
	return func(p *Profile) {
		p.now = now
	}
}

// Profile derives generic "Custom." header cards for any observatory.
type Profile struct {
	now func() time.Time
}

// New returns a generic profile.
func New(opts ...Option) *Profile {
	p := &Profile{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the profile name.
func (p *Profile) Name() string {
	return Name
}

// Camera returns the exposure, detector and, when the camera knows the
// telescope focal length, WCS cards.
func (p *Profile) Camera(ctx context.Context, cam instrument.Camera, req exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting camera header", "location", cam.Location())

	info, err := cam.ExtraHeaderInfo(ctx)
	if err != nil {
		return nil, err
	}
	start := p.now()
	if info.StartTime != nil {
		start = *info.StartTime
	}

	exptime := req.ExpTime
	if exptime == 0 {
		exptime = -1
	}

	model, err := instrument.StringAttribute(ctx, cam, instrument.AttrCameraModel)
	if err != nil {
		return nil, err
	}
	ccd, err := instrument.StringAttribute(ctx, cam, instrument.AttrCCDModel)
	if err != nil {
		return nil, err
	}
	size, err := cam.PhysicalSize(ctx)
	if err != nil {
		return nil, err
	}
	pix, err := cam.PixelSize(ctx)
	if err != nil {
		return nil, err
	}

	l := header.NewList(18).
		AddString("DATE-OBS", start.UTC().Format(header.TimeFormat), commentPrefix+"Date exposure started").
		AddFloat64("EXPTIME", exptime, commentPrefix+"exposure time in seconds").
		AddString("IMAGETYP", req.ImageType(), commentPrefix+"Image type").
		AddString("SHUTTER", req.Shutter, commentPrefix+"Requested shutter state").
		AddString("INSTRUME", model, commentPrefix+"Name of instrument").
		AddString("CCD", ccd, commentPrefix+"CCD Model").
		AddInt("CCD_DIMX", size.Width, commentPrefix+"CCD X Dimension Size").
		AddInt("CCD_DIMY", size.Height, commentPrefix+"CCD Y Dimension Size").
		AddFloat64("CCDPXSZX", pix.Width, commentPrefix+"CCD X Pixel Size [micrometer]").
		AddFloat64("CCDPXSZY", pix.Height, commentPrefix+"CCD Y Pixel Size [micrometer]")

	if info.Temperature != nil {
		l.AddFloat64("CCD-TEMP", *info.Temperature, commentPrefix+"CCD Temperature at Exposure Start [deg. C]")
	}

	focal, err := instrument.OptionalFloatAttribute(ctx, cam, instrument.AttrTelescopeFocalLength)
	if err != nil {
		return nil, err
	}
	if focal == nil {
		return l.Entries(), nil
	}

	mode, err := cam.ReadoutModeInfo(ctx, req.Binning, req.Window)
	if err != nil {
		return nil, err
	}
	rotation, err := instrument.FloatAttribute(ctx, cam, instrument.AttrRotation)
	if err != nil {
		return nil, err
	}
	binFactor := 1.0
	if info.BinningFactor != nil {
		binFactor = *info.BinningFactor
	}

	sol := wcs.Solve(wcs.Frame{
		FullWidth:     size.Width,
		FullHeight:    size.Height,
		Left:          mode.Left,
		Top:           mode.Top,
		PixelWidth:    pix.Width,
		PixelHeight:   pix.Height,
		BinFactor:     binFactor,
		FocalLengthMM: *focal,
		RotationDeg:   rotation,
	})
	return l.Append(sol.Entries(commentPrefix)...).Entries(), nil
}

// Focuser returns the focuser model and its Z position.
func (p *Profile) Focuser(ctx context.Context, foc instrument.Focuser, _ exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting focuser header", "location", foc.Location())

	model, err := instrument.StringAttribute(ctx, foc, instrument.AttrModel)
	if err != nil {
		return nil, err
	}
	pos, err := foc.Position(ctx, instrument.AxisZ)
	if err != nil {
		return nil, err
	}

	return header.NewList(2).
		AddString("FOCUSER", model, commentPrefix+"Focuser Model.").
		AddFloat64("FOCUS", pos, commentPrefix+"Focuser position used for this observation.").
		Entries(), nil
}

// Dome returns the dome model, type, tracking mode and slit state.
func (p *Profile) Dome(ctx context.Context, dome instrument.Dome, _ exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting dome header", "location", dome.Location())

	open, err := dome.IsSlitOpen(ctx)
	if err != nil {
		return nil, err
	}
	model, err := instrument.StringAttribute(ctx, dome, instrument.AttrModel)
	if err != nil {
		return nil, err
	}
	style, err := instrument.StringAttribute(ctx, dome, instrument.AttrStyle)
	if err != nil {
		return nil, err
	}
	mode, err := instrument.StringAttribute(ctx, dome, instrument.AttrMode)
	if err != nil {
		return nil, err
	}

	return header.NewList(4).
		AddString("DOME_MDL", model, commentPrefix+"Dome Model").
		AddString("DOME_TYP", style, commentPrefix+"Dome Type").
		AddString("DOME_TRK", mode, commentPrefix+"Dome Tracking/Standing").
		AddString("DOME_SLT", instrument.SlitState(open), commentPrefix+"Dome slit status").
		Entries(), nil
}

// Telescope returns the telescope description, its current pointing and
// a WCS reference value at the commanded target.
func (p *Profile) Telescope(ctx context.Context, tel instrument.Telescope, _ exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting telescope header", "location", tel.Location())

	l := header.NewList(20)
	for _, card := range []struct{ keyword, attr, comment string }{
		{"TELESCOP", instrument.AttrModel, "Telescope Model"},
		{"OPTICS", instrument.AttrOptics, "Telescope Optics Type"},
		{"MOUNT", instrument.AttrMount, "Telescope Mount Type"},
		{"APERTURE", instrument.AttrAperture, "Telescope aperture size [mm]"},
		{"F_LENGTH", instrument.AttrFocalLength, "Telescope focal length [mm]"},
		{"F_REDUCT", instrument.AttrFocalReduction, "Telescope focal reduction"},
	} {
		v, err := instrument.ValueAttribute(ctx, tel, card.attr)
		if err != nil {
			return nil, err
		}
		l.Add(card.keyword, v, commentPrefix+card.comment)
	}

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
	target, err := tel.TargetRaDec(ctx)
	if err != nil {
		return nil, err
	}

	return l.
		AddString("RA", ra.HMS(), commentPrefix+"Right ascension of the observed object").
		AddString("DEC", dec.DMS(), commentPrefix+"Declination of the observed object").
		AddFloat64("EQUINOX", 2000.0, commentPrefix+"coordinate epoch").
		AddString("ALT", alt.DMS(), commentPrefix+"Altitude of the observed object").
		AddString("AZ", az.DMS(), commentPrefix+"Azimuth of the observed object").
		Append(wcs.ReferenceValue(target, commentPrefix)...).
		Entries(), nil
}

// Site returns the site name and geographic position.
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

	return header.NewList(4).
		Add("SITE", name, commentPrefix+"Site name (in config)").
		AddString("LATITUDE", lat.DMS(), commentPrefix+"Site latitude").
		AddString("LONGITUD", lon.DMS(), commentPrefix+"Site longitude").
		AddString("ALTITUDE", alt, commentPrefix+"Site altitude").
		Entries(), nil
}

// WeatherStation returns the current ambient readings.
func (p *Profile) WeatherStation(ctx context.Context, ws instrument.WeatherStation, _ exposure.Request) ([]header.Entry, error) {
	slog.Debug("getting weather station header", "location", ws.Location())

	l := header.NewList(5)
	for _, card := range []struct {
		keyword string
		read    func(context.Context) (instrument.Quantity, error)
		comment string
	}{
		{"WINDSPD", ws.WindSpeed, "Wind speed"},
		{"WINDDIR", ws.WindDirection, "Wind direction"},
		{"RELHUM", ws.Humidity, "Relative humidity"},
		{"PRESSURE", ws.Pressure, "Atmospheric pressure"},
		{"AMBTEMP", ws.Temperature, "Ambient temperature"},
	} {
		q, err := card.read(ctx)
		if err != nil {
			return nil, err
		}
		l.AddFloat64(card.keyword, q.Value, commentPrefix+withUnit(card.comment, q.Unit))
	}
	return l.Entries(), nil
}

func withUnit(comment, unit string) string {
	if unit == "" {
		return comment
	}
	return fmt.Sprintf("%s [%s]", comment, unit)
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
		AddString("SEEMOD", model, commentPrefix+"Seeing monitor Model").
		AddString("SEETYP", typ, commentPrefix+"Seeing monitor type").
		AddFloat64("SEEVAL", seeing, commentPrefix+"[arcsec] Seeing value").
		AddFloat64("SEEFLU", flux, commentPrefix+"[counts] Star flux value").
		AddString("SEEDAT", obs.UTC().Format(header.TimeFormat), commentPrefix+"UT time of the seeing observation").
		Entries(), nil
}
