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
	"fmt"
	"strings"
)

// Kind is the category of instrument a metadata provider is bound to.
type Kind string

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

const (
	KindCamera         Kind = "camera"
	KindDome           Kind = "dome"
	KindFocuser        Kind = "focuser"
	KindTelescope      Kind = "telescope"
	KindSite           Kind = "site"
	KindWeatherStation Kind = "weatherstation"
	KindSeeingMonitor  Kind = "seeingmonitor"
)

// Kinds lists every supported instrument kind in configuration order.
var Kinds = []Kind{
	KindCamera,
	KindDome,
	KindFocuser,
	KindTelescope,
	KindSite,
	KindWeatherStation,
	KindSeeingMonitor,
}

// ParseKind parses a case-insensitive instrument kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown instrument kind %q, supported kinds: %v", s, Kinds)
}

// Axis names one focuser axis.
type Axis string

const (
	AxisX Axis = "X"
	AxisY Axis = "Y"
	AxisZ Axis = "Z"
	AxisU Axis = "U"
	AxisV Axis = "V"
)

// Axes lists the hexapod focuser axes.
var Axes = []Axis{AxisX, AxisY, AxisZ, AxisU, AxisV}
