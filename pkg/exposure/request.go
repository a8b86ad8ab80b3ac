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

package exposure

import (
	"fmt"
	"strings"
)

// TypeObject is the image type of science exposures.
const TypeObject = "object"

// Category classifies an exposure for data reduction.
type Category string

// String returns the string representation of the Category.
func (c Category) String() string {
	return string(c)
}

const (
	CategoryScience     Category = "SCIENCE"
	CategoryCalibration Category = "CALIBRATION"
)

// Shutter states a request may ask for.
const (
	ShutterOpen      = "OPEN"
	ShutterClose     = "CLOSE"
	ShutterLeaveAsIs = "LEAVE_AS_IS"
)

// Request carries the exposure parameters supplied on every getMetadata call.
// It is treated as immutable by derivations.
type Request struct {
	// ExpTime is the exposure time in seconds.
	ExpTime float64 `json:"exptime" yaml:"exptime"`

	// Type is the image type, e.g. "object", "bias", "dark", "flat".
	Type string `json:"type" yaml:"type"`

	// Shutter is the requested shutter state.
	Shutter string `json:"shutter" yaml:"shutter"`

	// Binning names the camera readout binning mode, e.g. "1x1".
	Binning string `json:"binning,omitempty" yaml:"binning,omitempty"`

	// Window is the readout window specification understood by the camera.
	Window string `json:"window,omitempty" yaml:"window,omitempty"`
}

// Category reports SCIENCE for object frames and CALIBRATION for everything else.
func (r Request) Category() Category {
	if r.Type == TypeObject {
		return CategoryScience
	}
	return CategoryCalibration
}

// ImageType returns the request type with surrounding whitespace removed.
func (r Request) ImageType() string {
	return strings.TrimSpace(r.Type)
}

// Validate checks the request is well formed.
func (r Request) Validate() error {
	if r.ExpTime < 0 {
		return fmt.Errorf("exptime cannot be negative: %v", r.ExpTime)
	}
	if r.ImageType() == "" {
		return fmt.Errorf("image type is required")
	}
	return nil
}
