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
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/exposure"
	"github.com/astroufsc/fitsheaders/pkg/header"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
)

// Option is a functional option for configuring Provider instances.
type Option func(*Provider)

// WithLocation sets the path this provider is served at, e.g. "/Headers/camera".
func WithLocation(location string) Option {
	return func(p *Provider) {
		p.location = location
	}
}

// WithManager sets the host and port of the manager serving this provider.
// When set, the registered callback address is "host:port" + location.
func WithManager(host string, port int) Option {
	return func(p *Provider) {
		p.managerHost = host
		p.managerPort = port
	}
}

// WithProfile sets the derivation profile. Defaults to the generic profile.
func WithProfile(profile Profile) Option {
	return func(p *Provider) {
		p.profile = profile
	}
}

// WithResolver sets the resolver used to reach the bound instrument.
func WithResolver(r instrument.Resolver) Option {
	return func(p *Provider) {
		p.resolver = r
	}
}

// Provider serves header metadata for exactly one instrument.
type Provider struct {
	location    string
	managerHost string
	managerPort int
	binding     Binding
	profile     Profile
	resolver    instrument.Resolver

	mu         sync.RWMutex
	handle     instrument.Handle
	derive     Derivation
	started    bool
	available  bool
	registered bool
}

// New validates the instrument slots and returns a provider bound to the one
// configured instrument. It fails with a configuration error otherwise.
func New(slots Slots, opts ...Option) (*Provider, error) {
	p := &Provider{location: "/Headers/0"}
	for _, opt := range opts {
		opt(p)
	}

	if p.resolver == nil {
		return nil, fherrors.New(fherrors.ErrCodeConfiguration, "instrument resolver is required")
	}
	if p.profile == nil {
		profile, err := NewProfile(ProfileHeaders, nil)
		if err != nil {
			return nil, err
		}
		p.profile = profile
	}

	b, err := ResolveBinding(p.location, slots)
	if err != nil {
		return nil, err
	}
	p.binding = b
	return p, nil
}

// Binding returns the bound instrument.
func (p *Provider) Binding() Binding {
	return p.binding
}

// Location returns the path this provider is served at.
func (p *Provider) Location() string {
	return p.location
}

// Profile returns the name of the derivation profile.
func (p *Provider) Profile() string {
	return p.profile.Name()
}

// CallbackAddress is the address registered on the instrument.
func (p *Provider) CallbackAddress() string {
	if p.managerHost == "" {
		return p.location
	}
	return net.JoinHostPort(p.managerHost, strconv.Itoa(p.managerPort)) + p.location
}

// Start resolves and pings the bound instrument, then registers this
// provider as its metadata method. An unreachable instrument is recorded as
// unavailable and does not fail Start. A failed registration leaves the
// provider unstarted so Start can be retried.
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}
	p.available = false

	kind, loc := p.binding.Kind, p.binding.Location
	gauge := instrumentAvailable.WithLabelValues(kind.String(), loc)
	gauge.Set(0)

	h, err := p.resolver.Resolve(ctx, kind, loc)
	if err == nil {
		err = h.Ping(ctx)
	}
	if err != nil {
		slog.Warn("instrument unreachable, metadata will be unavailable",
			"kind", kind,
			"location", loc,
			"error", err)
		p.started = true
		return nil
	}

	derive, err := Dispatch(p.profile, kind, h)
	if err != nil {
		return err
	}

	callback := p.CallbackAddress()
	slog.Info(fmt.Sprintf("overriding %s instrument metadata methods to the ones from %s", loc, p.location),
		"kind", kind,
		"profile", p.profile.Name(),
		"callback", callback)

	if err := h.SetMetadataMethod(ctx, callback); err != nil {
		return fherrors.WrapWithContext(fherrors.CodeOrDefault(err, fherrors.ErrCodeUnreachable),
			"failed to register metadata method", err,
			map[string]any{"location": loc, "callback": callback})
	}

	p.handle = h
	p.derive = derive
	p.available = true
	p.registered = true
	p.started = true
	gauge.Set(1)
	return nil
}

// Stop deregisters this provider from the instrument. It is safe to call
// when Start found the instrument unreachable.
func (p *Provider) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = false
	if !p.registered {
		return nil
	}
	p.registered = false

	if err := p.handle.SetMetadataMethod(ctx, ""); err != nil {
		return fherrors.WrapWithContext(fherrors.CodeOrDefault(err, fherrors.ErrCodeUnreachable),
			"failed to deregister metadata method", err,
			map[string]any{"location": p.binding.Location})
	}
	slog.Info("metadata method deregistered", "location", p.binding.Location)
	return nil
}

// Available reports whether the bound instrument answered at Start.
func (p *Provider) Available() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.available
}

// GetMetadata returns the header entries for the bound instrument and req.
// Telemetry errors propagate unmodified.
func (p *Provider) GetMetadata(ctx context.Context, req exposure.Request) ([]header.Entry, error) {
	p.mu.RLock()
	derive, available := p.derive, p.available
	p.mu.RUnlock()

	kind := p.binding.Kind.String()
	profile := p.profile.Name()
	start := time.Now()

	var entries []header.Entry
	var err error
	if !available {
		err = fherrors.NewWithContext(fherrors.ErrCodeUnreachable, "bound instrument is unavailable",
			map[string]any{"kind": kind, "location": p.binding.Location})
	} else {
		slog.Debug("getting instrument header", "kind", kind, "profile", profile)
		entries, err = derive(ctx, req)
	}

	metadataDuration.WithLabelValues(profile, kind).Observe(time.Since(start).Seconds())
	metadataRequestsTotal.WithLabelValues(profile, kind, codeLabel(err)).Inc()
	if err != nil {
		return nil, err
	}
	metadataEntries.WithLabelValues(profile, kind).Set(float64(len(entries)))
	return entries, nil
}
