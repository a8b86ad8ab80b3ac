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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/astroufsc/fitsheaders/pkg/defaults"
	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
	"github.com/astroufsc/fitsheaders/pkg/metadata"
)

// EnvConfigPath names the environment variable holding the configuration file path.
const EnvConfigPath = "HEADERSD_CONFIG"

// EnvPort overrides server.port. The manager port defaults to the
// resulting listen port.
const EnvPort = "PORT"

// Default values applied to fields left empty.
const (
	DefaultProfile     = metadata.ProfileHeaders
	DefaultManagerHost = "127.0.0.1"
	DefaultServerPort  = 7667
	DefaultRemoteURL   = "http://127.0.0.1:7666"
)

// Config is the headersd configuration file.
type Config struct {
	// Location is the path this controller is served at, e.g. "/Headers/camera".
	Location string `yaml:"location"`

	// Profile selects the header derivations: "headers" or "t80s".
	Profile string `yaml:"profile"`

	// Manager is where instruments reach this controller back.
	Manager Manager `yaml:"manager"`

	// Instruments holds one slot per instrument kind. Exactly one must be set.
	Instruments Instruments `yaml:"instruments"`

	Remote Remote `yaml:"remote"`
	Server Server `yaml:"server"`
}

// Manager is the externally reachable address of this controller.
type Manager struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Instruments maps instrument kinds to locations.
type Instruments struct {
	Camera         string `yaml:"camera,omitempty"`
	Dome           string `yaml:"dome,omitempty"`
	Focuser        string `yaml:"focuser,omitempty"`
	Telescope      string `yaml:"telescope,omitempty"`
	Site           string `yaml:"site,omitempty"`
	WeatherStation string `yaml:"weatherstation,omitempty"`
	SeeingMonitor  string `yaml:"seeingmonitor,omitempty"`
}

// Slots returns the instrument slots keyed by kind.
func (i Instruments) Slots() metadata.Slots {
	return metadata.Slots{
		instrument.KindCamera:         i.Camera,
		instrument.KindDome:           i.Dome,
		instrument.KindFocuser:        i.Focuser,
		instrument.KindTelescope:      i.Telescope,
		instrument.KindSite:           i.Site,
		instrument.KindWeatherStation: i.WeatherStation,
		instrument.KindSeeingMonitor:  i.SeeingMonitor,
	}
}

// Set binds kind to location.
func (i *Instruments) Set(kind instrument.Kind, location string) error {
	switch kind {
	case instrument.KindCamera:
		i.Camera = location
	case instrument.KindDome:
		i.Dome = location
	case instrument.KindFocuser:
		i.Focuser = location
	case instrument.KindTelescope:
		i.Telescope = location
	case instrument.KindSite:
		i.Site = location
	case instrument.KindWeatherStation:
		i.WeatherStation = location
	case instrument.KindSeeingMonitor:
		i.SeeingMonitor = location
	default:
		return fherrors.NewWithContext(fherrors.ErrCodeConfiguration, "unknown instrument slot",
			map[string]any{"kind": kind.String()})
	}
	return nil
}

// Remote configures the instrument proxy client.
type Remote struct {
	// BaseURL is the manager serving instruments whose location has no host.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single telemetry read.
	Timeout time.Duration `yaml:"timeout"`
}

// Server configures the HTTP surface.
type Server struct {
	Address        string  `yaml:"address"`
	Port           int     `yaml:"port"`
	RateLimit      float64 `yaml:"rate_limit,omitempty"`
	RateLimitBurst int     `yaml:"rate_limit_burst,omitempty"`
}

// Load reads, defaults and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fherrors.WrapWithContext(fherrors.ErrCodeConfiguration, "failed to open configuration", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fherrors.WrapWithContext(fherrors.CodeOrDefault(err, fherrors.ErrCodeConfiguration),
			"invalid configuration", err, map[string]any{"path": path})
	}
	return cfg, nil
}

// Read decodes a configuration document from r, then applies defaults and validates it.
// Unknown fields are rejected.
func Read(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fherrors.Wrap(fherrors.ErrCodeConfiguration, "failed to decode configuration", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills empty fields. PORT in the environment replaces
// server.port before the manager port falls back to it.
func (c *Config) ApplyDefaults() {
	c.Profile = strings.ToLower(strings.TrimSpace(c.Profile))
	if c.Profile == "" {
		c.Profile = DefaultProfile
	}
	if c.Location == "" {
		c.Location = defaultLocation(c.Profile, c.Instruments.Slots())
	}
	if portStr := os.Getenv(EnvPort); portStr != "" {
		var port int
		if _, err := fmt.Sscanf(portStr, "%d", &port); err == nil {
			c.Server.Port = port
		}
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Manager.Host == "" {
		c.Manager.Host = DefaultManagerHost
	}
	if c.Manager.Port == 0 {
		c.Manager.Port = c.Server.Port
	}
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = DefaultRemoteURL
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = defaults.TelemetryReadTimeout
	}
}

// defaultLocation names the controller after its profile and bound kind, as
// in "/T80SHeaders/telescope".
func defaultLocation(profile string, slots metadata.Slots) string {
	class := "Headers"
	if profile == metadata.ProfileT80S {
		class = "T80SHeaders"
	}
	name := "0"
	if configured := slots.Configured(); len(configured) == 1 {
		name = configured[0].Kind.String()
	}
	return "/" + class + "/" + name
}

var reservedLocations = map[string]bool{
	"":         true,
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Location, "/") {
		return fherrors.NewWithContext(fherrors.ErrCodeConfiguration, "location must start with '/'",
			map[string]any{"location": c.Location})
	}
	if reservedLocations[strings.TrimRight(c.Location, "/")] {
		return fherrors.NewWithContext(fherrors.ErrCodeConfiguration, "location collides with a system route",
			map[string]any{"location": c.Location})
	}
	if _, err := metadata.NewProfile(c.Profile, nil); err != nil {
		return err
	}
	if _, err := metadata.ResolveBinding(c.Location, c.Instruments.Slots()); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fherrors.NewWithContext(fherrors.ErrCodeConfiguration, "server port out of range",
			map[string]any{"port": c.Server.Port})
	}
	if c.Manager.Port < 1 || c.Manager.Port > 65535 {
		return fherrors.NewWithContext(fherrors.ErrCodeConfiguration, "manager port out of range",
			map[string]any{"port": c.Manager.Port})
	}
	if u, err := url.Parse(c.Remote.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fherrors.NewWithContext(fherrors.ErrCodeConfiguration, "remote base_url must be an absolute URL",
			map[string]any{"base_url": c.Remote.BaseURL})
	}
	if c.Remote.Timeout < 0 {
		return fherrors.NewWithContext(fherrors.ErrCodeConfiguration, "remote timeout cannot be negative",
			map[string]any{"timeout": c.Remote.Timeout.String()})
	}
	return nil
}

// Binding returns the bound instrument. Validate guarantees there is exactly one.
func (c *Config) Binding() (metadata.Binding, error) {
	return metadata.ResolveBinding(c.Location, c.Instruments.Slots())
}
