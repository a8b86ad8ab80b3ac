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

package wcs

import (
	"math"

	"github.com/astroufsc/fitsheaders/pkg/coord"
	"github.com/astroufsc/fitsheaders/pkg/header"
)

// PixelScale returns the angular size of one pixel in degrees along one axis.
//
//	scale = binFactor * (180/pi / focalLengthMM) * (pixelSizeUM * 1e-3)
func PixelScale(binFactor, focalLengthMM, pixelSizeUM float64) float64 {
	return binFactor * (((180 / math.Pi) / focalLengthMM) * (pixelSizeUM * 0.001))
}

// ReferencePixel returns CRPIX for one axis: floor(full/2) - offset - 1,
// where offset is the readout window origin on that axis.
func ReferencePixel(fullDimension, offset int) int {
	return fullDimension/2 - offset - 1
}

// CD is the linear transformation matrix from pixel to intermediate world coordinates.
type CD struct {
	CD11 float64
	CD12 float64
	CD21 float64
	CD22 float64
}

// Rotate builds the CD matrix for the given axis scales rotated by rotationDeg degrees.
func Rotate(scaleX, scaleY, rotationDeg float64) CD {
	theta := rotationDeg * math.Pi / 180.
	sin, cos := math.Sincos(theta)
	return CD{
		CD11: scaleX * cos,
		CD12: -scaleY * sin,
		CD21: scaleX * sin,
		CD22: scaleY * cos,
	}
}

// Frame describes the detector geometry and optics needed to derive a WCS solution.
type Frame struct {
	// FullWidth and FullHeight are the physical detector dimensions in pixels.
	FullWidth  int
	FullHeight int

	// Left and Top are the readout window origin.
	Left int
	Top  int

	// PixelWidth and PixelHeight are the pixel sizes in micrometers.
	PixelWidth  float64
	PixelHeight float64

	BinFactor     float64
	FocalLengthMM float64
	RotationDeg   float64
}

// Solution is the linear WCS for one frame.
type Solution struct {
	CRPIX1 int
	CRPIX2 int
	CD     CD
}

// Solve derives the reference pixel and CD matrix for f.
func Solve(f Frame) Solution {
	scaleX := PixelScale(f.BinFactor, f.FocalLengthMM, f.PixelWidth)
	scaleY := PixelScale(f.BinFactor, f.FocalLengthMM, f.PixelHeight)

	return Solution{
		CRPIX1: ReferencePixel(f.FullWidth, f.Left),
		CRPIX2: ReferencePixel(f.FullHeight, f.Top),
		CD:     Rotate(scaleX, scaleY, f.RotationDeg),
	}
}

// Entries renders the solution as header entries, each comment prefixed by commentPrefix.
func (s Solution) Entries(commentPrefix string) []header.Entry {
	return header.NewList(6).
		AddInt("CRPIX1", s.CRPIX1, commentPrefix+"coordinate system reference pixel").
		AddInt("CRPIX2", s.CRPIX2, commentPrefix+"coordinate system reference pixel").
		AddFloat64("CD1_1", s.CD.CD11, commentPrefix+"transformation matrix element (1,1)").
		AddFloat64("CD1_2", s.CD.CD12, commentPrefix+"transformation matrix element (1,2)").
		AddFloat64("CD2_1", s.CD.CD21, commentPrefix+"transformation matrix element (2,1)").
		AddFloat64("CD2_2", s.CD.CD22, commentPrefix+"transformation matrix element (2,2)").
		Entries()
}

// Keywords lists the keywords a Solution renders to.
var Keywords = []string{"CRPIX1", "CRPIX2", "CD1_1", "CD1_2", "CD2_1", "CD2_2"}

// Airmass approximates the airmass as the secant of the zenith distance,
// 1 / cos(pi/2 - altitude). No clamping is applied: values grow without bound
// towards the horizon and are negative below it. At exactly zero altitude the
// result is +Inf.
func Airmass(altitude coord.Angle) float64 {
	if altitude == 0 {
		return math.Inf(1)
	}
	return 1 / math.Cos(math.Pi/2-altitude.R())
}

// ReferenceValue renders the CRVAL/CTYPE/CUNIT and frame-of-reference entries
// pointing the reference pixel at target.
func ReferenceValue(target coord.Position, commentPrefix string) []header.Entry {
	return header.NewList(8).
		AddInt("WCSAXES", 2, commentPrefix+"wcs dimensionality").
		AddString("RADESYS", "ICRS", commentPrefix+"frame of reference").
		AddFloat64("CRVAL1", target.RA.D(), commentPrefix+"coordinate system value at reference pixel").
		AddFloat64("CRVAL2", target.Dec.D(), commentPrefix+"coordinate system value at reference pixel").
		AddString("CTYPE1", "RA---TAN", commentPrefix+"name of the coordinate axis").
		AddString("CTYPE2", "DEC--TAN", commentPrefix+"name of the coordinate axis").
		AddString("CUNIT1", "deg", commentPrefix+"units of coordinate value").
		AddString("CUNIT2", "deg", commentPrefix+"units of coordinate value").
		Entries()
}
