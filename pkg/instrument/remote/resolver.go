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

package remote

import (
	"context"
	"errors"
	"net"
	"strings"

	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
)

// Resolver builds remote clients for instrument locations.
//
// A location is either a path served by the default manager, such as
// "/Telescope/0", or carries its own manager address, such as
// "192.168.10.10:7666/Telescope/0".
type Resolver struct {
	baseURL string
	opts    []Option
}

// NewResolver returns a resolver for instruments served by the manager at baseURL.
func NewResolver(baseURL string, opts ...Option) *Resolver {
	return &Resolver{baseURL: baseURL, opts: opts}
}

// Resolve returns a client for location. It does not contact the instrument.
func (r *Resolver) Resolve(_ context.Context, kind instrument.Kind, location string) (instrument.Handle, error) {
	base, path, err := SplitLocation(r.baseURL, location)
	if err != nil {
		return nil, fherrors.WrapWithContext(fherrors.ErrCodeUnreachable, "invalid instrument location", err,
			map[string]any{"kind": kind.String(), "location": location})
	}
	return NewClient(base, path, r.opts...), nil
}

// SplitLocation splits location into the manager base URL and the instrument path.
// Locations without a host use defaultBase.
func SplitLocation(defaultBase, location string) (string, string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", "", errEmptyLocation
	}

	if strings.HasPrefix(location, "/") {
		if defaultBase == "" {
			return "", "", errNoBaseURL
		}
		return defaultBase, location, nil
	}

	if scheme, rest, ok := strings.Cut(location, "://"); ok {
		hostPort, path, found := strings.Cut(rest, "/")
		if !found || path == "" {
			return "", "", errNoPath
		}
		return scheme + "://" + hostPort, "/" + path, nil
	}

	hostPort, path, found := strings.Cut(location, "/")
	if !found || path == "" {
		return "", "", errNoPath
	}
	if _, _, err := net.SplitHostPort(hostPort); err != nil {
		return "", "", err
	}
	return "http://" + hostPort, "/" + path, nil
}

var (
	errEmptyLocation = errors.New("empty location")
	errNoBaseURL     = errors.New("location has no host and no default manager is configured")
	errNoPath        = errors.New("location has no instrument path")
)
