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
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/astroufsc/fitsheaders/pkg/coord"
	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/header"
)

// StringAttribute reads a configuration attribute rendered as a string.
// A null attribute renders as the empty string.
func StringAttribute(ctx context.Context, h Handle, name string) (string, error) {
	v, err := h.Attribute(ctx, name)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case coord.Angle:
		return val.DMS(), nil
	default:
		return fmt.Sprint(val), nil
	}
}

// ValueAttribute reads a configuration attribute as a header value, keeping its type.
func ValueAttribute(ctx context.Context, h Handle, name string) (header.Value, error) {
	v, err := h.Attribute(ctx, name)
	if err != nil {
		return nil, err
	}
	return header.ToValue(v), nil
}

// OptionalFloatAttribute reads a numeric attribute. A null attribute yields nil.
func OptionalFloatAttribute(ctx context.Context, h Handle, name string) (*float64, error) {
	v, err := h.Attribute(ctx, name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return nil, fherrors.WrapWithContext(fherrors.ErrCodeTelemetryUnavailable,
			"attribute is not numeric", err, map[string]any{"location": h.Location(), "attribute": name})
	}
	return &f, nil
}

// FloatAttribute reads a numeric attribute that must be set.
func FloatAttribute(ctx context.Context, h Handle, name string) (float64, error) {
	f, err := OptionalFloatAttribute(ctx, h, name)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, fherrors.NewWithContext(fherrors.ErrCodeTelemetryUnavailable,
			"attribute is not set", map[string]any{"location": h.Location(), "attribute": name})
	}
	return *f, nil
}

// AngleAttribute reads an angle attribute given either as decimal degrees or
// as a sexagesimal "DD:MM:SS" string.
func AngleAttribute(ctx context.Context, h Handle, name string) (coord.Angle, error) {
	v, err := h.Attribute(ctx, name)
	if err != nil {
		return 0, err
	}

	var a coord.Angle
	switch val := v.(type) {
	case coord.Angle:
		a = val
	case string:
		a, err = coord.ParseDMS(val)
	case nil:
		err = fmt.Errorf("attribute is not set")
	default:
		var f float64
		f, err = toFloat(val)
		a = coord.FromDegrees(f)
	}
	if err != nil {
		return 0, fherrors.WrapWithContext(fherrors.ErrCodeTelemetryUnavailable,
			"attribute is not an angle", err, map[string]any{"location": h.Location(), "attribute": name})
	}
	return a, nil
}

func toFloat(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case json.Number:
		return val.Float64()
	case string:
		return strconv.ParseFloat(val, 64)
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}
