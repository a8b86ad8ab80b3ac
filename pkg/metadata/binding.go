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
	"fmt"
	"log/slog"
	"strings"

	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
)

// Slots maps each instrument kind to the configured instrument location.
// An empty location is a null slot.
type Slots map[instrument.Kind]string

// Configured returns the non-null slots in instrument.Kinds order.
func (s Slots) Configured() []Binding {
	var out []Binding
	for _, k := range instrument.Kinds {
		if loc := strings.TrimSpace(s[k]); loc != "" {
			out = append(out, Binding{Kind: k, Location: loc})
		}
	}
	return out
}

// Binding is the one instrument a provider serves metadata for.
type Binding struct {
	Kind     instrument.Kind `json:"kind" yaml:"kind"`
	Location string          `json:"location" yaml:"location"`
}

// String returns "kind=location".
func (b Binding) String() string {
	return fmt.Sprintf("%s=%s", b.Kind, b.Location)
}

// ResolveBinding returns the single configured instrument. owner is the
// location of the provider and is only used for reporting.
func ResolveBinding(owner string, slots Slots) (Binding, error) {
	for k := range slots {
		if _, err := instrument.ParseKind(string(k)); err != nil {
			return Binding{}, fherrors.WrapWithContext(fherrors.ErrCodeConfiguration,
				"unknown instrument slot", err, map[string]any{"owner": owner, "slot": string(k)})
		}
	}

	configured := slots.Configured()
	if len(configured) == 1 {
		return configured[0], nil
	}

	slog.Error("number of instruments different of one",
		"owner", owner,
		"instruments", configured)

	msg := "at least one instrument required"
	if len(configured) > 1 {
		msg = "only one instrument allowed"
	}
	return Binding{}, fherrors.NewWithContext(fherrors.ErrCodeConfiguration, msg,
		map[string]any{"owner": owner, "count": len(configured)})
}
