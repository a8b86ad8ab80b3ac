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

package instrument

import (
	"context"
	"time"

	"github.com/astroufsc/fitsheaders/pkg/coord"
)

// Configuration attribute names read through Handle.Attribute.
const (
	AttrModel          = "model"
	AttrType           = "type"
	AttrStyle          = "style"
	AttrMode           = "mode"
	AttrName           = "name"
	AttrLatitude       = "latitude"
	AttrLongitude      = "longitude"
	AttrAltitude       = "altitude"
	AttrOptics         = "optics"
	AttrMount          = "mount"
	AttrAperture       = "aperture"
	AttrFocalLength    = "focal_length"
	AttrFocalReduction = "focal_reduction"

	AttrCameraModel          = "camera_model"
	AttrCCDModel             = "ccd_model"
	AttrTelescopeFocalLength = "telescope_focal_length"
	AttrRotation             = "rotation"
)

// Handle is the capability every instrument proxy grants. Get calls are read
// only; SetMetadataMethod is the one mutating interaction.
type Handle interface {
	// Location is the address the handle was resolved from.
	Location() string

	// Ping checks the instrument is alive.
	Ping(ctx context.Context) error

	// SetMetadataMethod registers address as the instrument's metadata
	// callback destination. An empty address deregisters.
	SetMetadataMethod(ctx context.Context, address string) error

	// Attribute reads a configuration attribute. A configured null yields (nil, nil).
	Attribute(ctx context.Context, name string) (any, error)
}

// Size is a detector size in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// PixelSize is the detector pixel size in micrometers.
type PixelSize struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// FrameInfo is the extra header information a camera reports for the last frame.
// Nil fields were not reported.
type FrameInfo struct {
	StartTime     *time.Time `json:"frame_start_time,omitempty" yaml:"frame_start_time,omitempty"`
	Temperature   *float64   `json:"frame_temperature,omitempty" yaml:"frame_temperature,omitempty"`
	BinningFactor *float64   `json:"binning_factor,omitempty" yaml:"binning_factor,omitempty"`
}

// ReadoutMode describes how a binning/window request maps onto the detector.
type ReadoutMode struct {
	Mode    int    `json:"mode" yaml:"mode"`
	Binning string `json:"binning" yaml:"binning"`
	Top     int    `json:"top" yaml:"top"`
	Left    int    `json:"left" yaml:"left"`
	Width   int    `json:"width" yaml:"width"`
	Height  int    `json:"height" yaml:"height"`
}

// Camera is an imaging camera with an attached filter wheel.
type Camera interface {
	Handle
	PhysicalSize(ctx context.Context) (Size, error)
	PixelSize(ctx context.Context) (PixelSize, error)
	ExtraHeaderInfo(ctx context.Context) (FrameInfo, error)
	ReadoutModeInfo(ctx context.Context, binning, window string) (ReadoutMode, error)
	Filter(ctx context.Context) (string, error)
}

// Dome is an observatory dome.
type Dome interface {
	Handle
	IsSlitOpen(ctx context.Context) (bool, error)
	Mode(ctx context.Context) (string, error)
	Az(ctx context.Context) (coord.Angle, error)
}

// SlitState renders the dome slit as "Open" or "Closed".
func SlitState(open bool) string {
	if open {
		return "Open"
	}
	return "Closed"
}

// Focuser is a single or multi axis focuser.
type Focuser interface {
	Handle
	Position(ctx context.Context, axis Axis) (float64, error)
	Offset(ctx context.Context, axis Axis) (float64, error)
}

// Sensor is one named reading from a telescope sensor list.
type Sensor struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

// Orientation is the mount pier side and pointing mode pair.
type Orientation struct {
	PierSide string `json:"pier_side" yaml:"pier_side"`
	Mode     string `json:"mode" yaml:"mode"`
}

// Telescope is a telescope mount.
type Telescope interface {
	Handle
	RA(ctx context.Context) (coord.Angle, error)
	Dec(ctx context.Context) (coord.Angle, error)
	Alt(ctx context.Context) (coord.Angle, error)
	Az(ctx context.Context) (coord.Angle, error)
	TargetRaDec(ctx context.Context) (coord.Position, error)
	ParallacticAngle(ctx context.Context) (coord.Angle, error)
	Sensors(ctx context.Context) ([]Sensor, error)
	PierSideOrientation(ctx context.Context) (Orientation, error)
}

// Site is the observatory site. Everything is read through attributes.
type Site interface {
	Handle
}

// Quantity is a measured value with its unit.
type Quantity struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// WeatherStation reports ambient conditions.
type WeatherStation interface {
	Handle
	WindSpeed(ctx context.Context) (Quantity, error)
	WindDirection(ctx context.Context) (Quantity, error)
	Humidity(ctx context.Context) (Quantity, error)
	Pressure(ctx context.Context) (Quantity, error)
	Temperature(ctx context.Context) (Quantity, error)
}

// SeeingMonitor reports atmospheric seeing.
type SeeingMonitor interface {
	Handle
	// Seeing is the last seeing measurement in arcseconds.
	Seeing(ctx context.Context) (float64, error)
	// Flux is the star flux of the last measurement in counts.
	Flux(ctx context.Context) (float64, error)
	// ObsTime is the UT time of the last measurement.
	ObsTime(ctx context.Context) (time.Time, error)
}

// Resolver resolves instrument locations to live handles.
type Resolver interface {
	Resolve(ctx context.Context, kind Kind, location string) (Handle, error)
}
