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

// Package instrument defines the capabilities a metadata provider needs from
// the instrument it is bound to.
//
// Every instrument category has its own handle interface exposing only the
// reads its header derivation performs:
//
//	Camera          PhysicalSize, PixelSize, ExtraHeaderInfo, ReadoutModeInfo, Filter
//	Dome            IsSlitOpen, Mode, Az
//	Focuser         Position, Offset
//	Telescope       RA, Dec, Alt, Az, TargetRaDec, ParallacticAngle, Sensors, PierSideOrientation
//	Site            configuration attributes only
//	WeatherStation  WindSpeed, WindDirection, Humidity, Pressure, Temperature
//	SeeingMonitor   Seeing, Flux, ObsTime
//
// All of them embed Handle, which carries liveness, configuration attributes
// and the metadata callback registration.
//
// Implementations live in subpackages: remote talks to instruments over HTTP,
// fake holds in-memory doubles for tests and dry runs.
package instrument
