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
	"fmt"
	"strings"
	"time"

	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/exposure"
	"github.com/astroufsc/fitsheaders/pkg/header"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
	"github.com/astroufsc/fitsheaders/pkg/metadata/generic"
	"github.com/astroufsc/fitsheaders/pkg/metadata/t80s"
)

// Profile derives header entries for every instrument kind. Each method is a
// read of the instrument's current telemetry plus the request.
type Profile interface {
	Name() string
	Camera(ctx context.Context, cam instrument.Camera, req exposure.Request) ([]header.Entry, error)
	Dome(ctx context.Context, dome instrument.Dome, req exposure.Request) ([]header.Entry, error)
	Focuser(ctx context.Context, foc instrument.Focuser, req exposure.Request) ([]header.Entry, error)
	Telescope(ctx context.Context, tel instrument.Telescope, req exposure.Request) ([]header.Entry, error)
	Site(ctx context.Context, site instrument.Site, req exposure.Request) ([]header.Entry, error)
	WeatherStation(ctx context.Context, ws instrument.WeatherStation, req exposure.Request) ([]header.Entry, error)
	SeeingMonitor(ctx context.Context, sm instrument.SeeingMonitor, req exposure.Request) ([]header.Entry, error)
}

// Profile names.
const (
	ProfileHeaders = generic.Name
	ProfileT80S    = t80s.Name
)

// Profiles lists the supported profile names.
var Profiles = []string{ProfileHeaders, ProfileT80S}

// NewProfile returns the named profile. now is used for timestamps the
// instrument does not report and defaults to time.Now.
func NewProfile(name string, now func() time.Time) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProfileHeaders, "":
		if now == nil {
			return generic.New(), nil
		}
		return generic.New(generic.WithClock(now)), nil
	case ProfileT80S, "t80sheaders":
		return t80s.New(), nil
	default:
		return nil, fherrors.NewWithContext(fherrors.ErrCodeConfiguration,
			fmt.Sprintf("unknown profile %q", name), map[string]any{"supported": Profiles})
	}
}

// Derivation produces the header entries for one exposure.
type Derivation func(ctx context.Context, req exposure.Request) ([]header.Entry, error)

// Dispatch returns the derivation of profile matching kind, bound to h.
// It fails with a dispatch error when h does not implement the capability
// the kind requires.
func Dispatch(profile Profile, kind instrument.Kind, h instrument.Handle) (Derivation, error) {
	mismatch := func() error {
		return fherrors.NewWithContext(fherrors.ErrCodeDispatch, "instrument does not implement its kind",
			map[string]any{"kind": kind.String(), "location": h.Location(), "handle": fmt.Sprintf("%T", h)})
	}

	switch kind {
	case instrument.KindCamera:
		cam, ok := h.(instrument.Camera)
		if !ok {
			return nil, mismatch()
		}
		return func(ctx context.Context, req exposure.Request) ([]header.Entry, error) {
			return profile.Camera(ctx, cam, req)
		}, nil
	case instrument.KindDome:
		dome, ok := h.(instrument.Dome)
		if !ok {
			return nil, mismatch()
		}
		return func(ctx context.Context, req exposure.Request) ([]header.Entry, error) {
			return profile.Dome(ctx, dome, req)
		}, nil
	case instrument.KindFocuser:
		foc, ok := h.(instrument.Focuser)
		if !ok {
			return nil, mismatch()
		}
		return func(ctx context.Context, req exposure.Request) ([]header.Entry, error) {
			return profile.Focuser(ctx, foc, req)
		}, nil
	case instrument.KindTelescope:
		tel, ok := h.(instrument.Telescope)
		if !ok {
			return nil, mismatch()
		}
		return func(ctx context.Context, req exposure.Request) ([]header.Entry, error) {
			return profile.Telescope(ctx, tel, req)
		}, nil
	case instrument.KindSite:
		site, ok := h.(instrument.Site)
		if !ok {
			return nil, mismatch()
		}
		return func(ctx context.Context, req exposure.Request) ([]header.Entry, error) {
			return profile.Site(ctx, site, req)
		}, nil
	case instrument.KindWeatherStation:
		ws, ok := h.(instrument.WeatherStation)
		if !ok {
			return nil, mismatch()
		}
		return func(ctx context.Context, req exposure.Request) ([]header.Entry, error) {
			return profile.WeatherStation(ctx, ws, req)
		}, nil
	case instrument.KindSeeingMonitor:
		sm, ok := h.(instrument.SeeingMonitor)
		if !ok {
			return nil, mismatch()
		}
		return func(ctx context.Context, req exposure.Request) ([]header.Entry, error) {
			return profile.SeeingMonitor(ctx, sm, req)
		}, nil
	default:
		return nil, fherrors.NewWithContext(fherrors.ErrCodeDispatch, "no derivation registered for instrument kind",
			map[string]any{"kind": kind.String()})
	}
}
