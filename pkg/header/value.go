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

package header

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AllowedScalar is a constraint (compile-time) for what a header value may hold.
type AllowedScalar interface {
	~int | ~int64 | ~float64 | ~bool | ~string
}

// Value is a *runtime* interface so entries with mixed value types can share a slice.
type Value interface {
	isValue()
	Any() any
	String() string

	json.Marshaler
	yaml.Marshaler
}

// Scalar wraps an allowed scalar type.
type Scalar[T AllowedScalar] struct {
	V T
}

func (Scalar[T]) isValue() {}

// Any returns the underlying scalar.
func (s Scalar[T]) Any() any { return s.V }

// String returns the string representation of the underlying scalar value.
func (s Scalar[T]) String() string {
	return fmt.Sprintf("%v", s.V)
}

// MarshalJSON makes the JSON value be the underlying scalar (not an object wrapper).
// Non-finite floats have no JSON literal and are written as strings ("+Inf", "NaN").
func (s Scalar[T]) MarshalJSON() ([]byte, error) {
	if f, ok := any(s.V).(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return json.Marshal(s.V)
}

// MarshalYAML makes the YAML value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalYAML() (any, error) {
	return s.V, nil
}

// Convenience constructors for each allowed scalar type.
func Int(v int) Value         { return Scalar[int]{V: v} }
func Int64(v int64) Value     { return Scalar[int64]{V: v} }
func Float64(v float64) Value { return Scalar[float64]{V: v} }
func Bool(v bool) Value       { return Scalar[bool]{V: v} }
func Str(v string) Value      { return Scalar[string]{V: v} }

// ToValue creates a Value from any allowed scalar type.
// Narrow integer and float types are widened; nil becomes an empty string and
// anything else is stored as its fmt representation.
func ToValue(v any) Value {
	switch val := v.(type) {
	case Value:
		return val
	case nil:
		return Str("")
	case int:
		return Int(val)
	case int8:
		return Int(int(val))
	case int16:
		return Int(int(val))
	case int32:
		return Int(int(val))
	case int64:
		return Int64(val)
	case uint8:
		return Int(int(val))
	case uint16:
		return Int(int(val))
	case uint32:
		return Int64(int64(val))
	case float32:
		return Float64(float64(val))
	case float64:
		return Float64(val)
	case bool:
		return Bool(val)
	case string:
		return Str(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int64(i)
		}
		if f, err := val.Float64(); err == nil {
			return Float64(f)
		}
		return Str(val.String())
	default:
		return Str(fmt.Sprintf("%v", val))
	}
}
