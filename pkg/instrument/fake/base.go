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

package fake

import (
	"context"
	"slices"
	"sync"

	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
)

// Base implements instrument.Handle in memory. Errors keyed by method or
// attribute name are returned instead of the stored value.
type Base struct {
	Loc        string
	Attributes map[string]any
	PingErr    error
	Errors     map[string]error

	mu            sync.Mutex
	registrations []string
}

// Location returns the configured location.
func (b *Base) Location() string {
	return b.Loc
}

// Ping returns PingErr.
func (b *Base) Ping(_ context.Context) error {
	return b.PingErr
}

// SetMetadataMethod records the registered address.
func (b *Base) SetMetadataMethod(_ context.Context, address string) error {
	if err := b.Fail("SetMetadataMethod"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registrations = append(b.registrations, address)
	return nil
}

// Registrations returns every address registered so far, oldest first.
func (b *Base) Registrations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.registrations)
}

// Attribute returns the stored attribute. Attributes that were never set are
// reported as unavailable; attributes set to nil are configured nulls.
func (b *Base) Attribute(_ context.Context, name string) (any, error) {
	if err := b.Fail(name); err != nil {
		return nil, err
	}
	v, ok := b.Attributes[name]
	if !ok {
		return nil, fherrors.NewWithContext(fherrors.ErrCodeTelemetryUnavailable,
			"unknown attribute", map[string]any{"location": b.Loc, "attribute": name})
	}
	return v, nil
}

// Fail returns the error injected for member, if any.
func (b *Base) Fail(member string) error {
	if b.Errors == nil {
		return nil
	}
	return b.Errors[member]
}
