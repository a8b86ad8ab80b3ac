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

package coord

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Angle is an angular quantity stored in degrees.
type Angle float64

// FromDegrees returns an Angle of d degrees.
func FromDegrees(d float64) Angle { return Angle(d) }

// FromRadians returns an Angle of r radians.
func FromRadians(r float64) Angle { return Angle(r * 180 / math.Pi) }

// FromHours returns an Angle of h hours of right ascension.
func FromHours(h float64) Angle { return Angle(h * 15) }

// D returns the angle in degrees.
func (a Angle) D() float64 { return float64(a) }

// R returns the angle in radians.
func (a Angle) R() float64 { return float64(a) * math.Pi / 180 }

// H returns the angle in hours.
func (a Angle) H() float64 { return float64(a) / 15 }

// HMS formats the angle as hours, minutes and seconds: "HH:MM:SS.SS".
func (a Angle) HMS() string {
	return sexagesimal(a.H(), false)
}

// DMS formats the angle as signed degrees, minutes and seconds: "+DD:MM:SS.SS".
func (a Angle) DMS() string {
	return sexagesimal(a.D(), true)
}

// String implements fmt.Stringer using the DMS form.
func (a Angle) String() string {
	return a.DMS()
}

// Decimal formats the angle in decimal degrees with the shortest exact representation.
func (a Angle) Decimal() string {
	return strconv.FormatFloat(a.D(), 'f', -1, 64)
}

func sexagesimal(v float64, signed bool) string {
	sign := "+"
	if v < 0 {
		sign = "-"
		v = -v
	}
	// work in hundredths of a second so rounding carries into minutes and units
	cs := int64(math.Round(v * 3600 * 100))
	units := cs / (3600 * 100)
	minutes := (cs / (60 * 100)) % 60
	seconds := float64(cs%(60*100)) / 100

	if !signed {
		if sign == "-" {
			return fmt.Sprintf("-%02d:%02d:%05.2f", units, minutes, seconds)
		}
		return fmt.Sprintf("%02d:%02d:%05.2f", units, minutes, seconds)
	}
	return fmt.Sprintf("%s%02d:%02d:%05.2f", sign, units, minutes, seconds)
}

// ParseDMS parses a sexagesimal "[+-]DD:MM:SS.ss" string or plain decimal degrees.
func ParseDMS(s string) (Angle, error) {
	v, err := parseSexagesimal(s)
	if err != nil {
		return 0, err
	}
	return FromDegrees(v), nil
}

// ParseHMS parses a sexagesimal "HH:MM:SS.ss" string or plain decimal hours.
func ParseHMS(s string) (Angle, error) {
	v, err := parseSexagesimal(s)
	if err != nil {
		return 0, err
	}
	return FromHours(v), nil
}

func parseSexagesimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty sexagesimal value")
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "+-")

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == ' ' })
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid sexagesimal value %q", s)
	}

	var total float64
	scale := 1.0
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid sexagesimal component %q: %w", p, err)
		}
		if i > 0 && (f < 0 || f >= 60) {
			return 0, fmt.Errorf("sexagesimal component %q out of range", p)
		}
		total += f / scale
		scale *= 60
	}

	if neg {
		total = -total
	}
	return total, nil
}

// Position is an equatorial coordinate pair.
type Position struct {
	RA  Angle `json:"ra" yaml:"ra"`
	Dec Angle `json:"dec" yaml:"dec"`
}

// String formats the position as "HH:MM:SS.SS +DD:MM:SS.SS".
func (p Position) String() string {
	return p.RA.HMS() + " " + p.Dec.DMS()
}
