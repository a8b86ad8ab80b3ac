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

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/astroufsc/fitsheaders/pkg/config"
	"github.com/astroufsc/fitsheaders/pkg/defaults"
	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/exposure"
	"github.com/astroufsc/fitsheaders/pkg/header"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
	"github.com/astroufsc/fitsheaders/pkg/instrument/fake"
	"github.com/astroufsc/fitsheaders/pkg/metadata"
	"github.com/astroufsc/fitsheaders/pkg/serializer"
)

func metadataCmd() *cli.Command {
	return &cli.Command{
		Name:  "metadata",
		Usage: "Derive the header entries for a single exposure request",
		Description: `Resolve the bound instrument, read its telemetry once and print the header
entries for the given exposure. The instrument's metadata method is left
untouched.

Use --fake to derive against the built-in demo observatory, with or without a
configuration file:

  headersd metadata --fake --kind telescope --profile t80s --exptime 30`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fake",
				Usage: "Use the built-in demo observatory instead of remote instruments",
			},
			&cli.StringFlag{
				Name:  "kind",
				Value: instrument.KindCamera.String(),
				Usage: fmt.Sprintf("Instrument kind bound when --fake is used without a configuration file (supported values: %v)", instrument.Kinds),
			},
			&cli.StringFlag{
				Name:  "profile",
				Usage: fmt.Sprintf("Override the configured profile (supported values: %v)", metadata.Profiles),
			},
			&cli.StringFlag{
				Name:    "request",
				Aliases: []string{"r"},
				Usage:   "Path to a JSON or YAML exposure request; replaces the request flags",
			},
			&cli.FloatFlag{
				Name:  "exptime",
				Usage: "Exposure time in seconds",
			},
			&cli.StringFlag{
				Name:  "type",
				Value: exposure.TypeObject,
				Usage: "Image type (object, bias, dark, flat, ...)",
			},
			&cli.StringFlag{
				Name:  "shutter",
				Value: exposure.ShutterOpen,
				Usage: fmt.Sprintf("Shutter state (%s, %s, %s)", exposure.ShutterOpen, exposure.ShutterClose, exposure.ShutterLeaveAsIs),
			},
			&cli.StringFlag{
				Name:  "binning",
				Usage: "Camera binning mode",
			},
			&cli.StringFlag{
				Name:  "window",
				Usage: "Camera readout window",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			req, err := requestFromCmd(cmd)
			if err != nil {
				return err
			}

			cfg, resolver, err := metadataSource(cmd, time.Now())
			if err != nil {
				return err
			}

			entries, err := derive(ctx, cfg, resolver, *req)
			if err != nil {
				return err
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(w)
			return w.Serialize(ctx, entries)
		},
	}
}

// requestFromCmd builds the exposure request from --request or the request flags.
func requestFromCmd(cmd *cli.Command) (*exposure.Request, error) {
	var req *exposure.Request
	if path := cmd.String("request"); path != "" {
		r, err := serializer.FromFile[exposure.Request](path)
		if err != nil {
			return nil, fmt.Errorf("failed to load exposure request from %q: %w", path, err)
		}
		req = r
	} else {
		req = &exposure.Request{
			ExpTime: cmd.Float("exptime"),
			Type:    cmd.String("type"),
			Shutter: strings.ToUpper(cmd.String("shutter")),
			Binning: cmd.String("binning"),
			Window:  cmd.String("window"),
		}
	}

	if err := req.Validate(); err != nil {
		return nil, fherrors.Wrap(fherrors.ErrCodeInvalidRequest, "invalid exposure request", err)
	}
	return req, nil
}

// metadataSource returns the configuration and the resolver its binding is
// resolved against. With --fake the bound instrument is a demo handle served
// at the configured location.
func metadataSource(cmd *cli.Command, now time.Time) (*config.Config, instrument.Resolver, error) {
	var cfg *config.Config
	switch {
	case cmd.String("config") != "":
		c, err := config.Load(cmd.String("config"))
		if err != nil {
			return nil, nil, err
		}
		cfg = c
	case cmd.Bool("fake"):
		kind, err := instrument.ParseKind(cmd.String("kind"))
		if err != nil {
			return nil, nil, fherrors.Wrap(fherrors.ErrCodeConfiguration, "invalid --kind", err)
		}
		cfg = &config.Config{}
		if err := cfg.Instruments.Set(kind, fake.Locations[kind]); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("a configuration file is required unless --fake is set: set --config or %s", config.EnvConfigPath)
	}

	if p := cmd.String("profile"); p != "" {
		cfg.Profile = p
		cfg.Location = ""
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if !cmd.Bool("fake") {
		return cfg, remoteResolver(cfg), nil
	}

	binding, err := cfg.Binding()
	if err != nil {
		return nil, nil, err
	}
	h, err := fake.NewHandle(binding.Kind, binding.Location, now)
	if err != nil {
		return nil, nil, err
	}
	return cfg, fake.NewResolver(h), nil
}

// derive resolves and pings the bound instrument and runs the profile
// derivation once, without registering as its metadata method.
func derive(ctx context.Context, cfg *config.Config, resolver instrument.Resolver, req exposure.Request) ([]header.Entry, error) {
	binding, err := cfg.Binding()
	if err != nil {
		return nil, err
	}
	profile, err := metadata.NewProfile(cfg.Profile, nil)
	if err != nil {
		return nil, err
	}

	h, err := resolver.Resolve(ctx, binding.Kind, binding.Location)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaults.InstrumentPingTimeout)
	defer cancel()
	if err := h.Ping(pingCtx); err != nil {
		return nil, fherrors.WrapWithContext(fherrors.CodeOrDefault(err, fherrors.ErrCodeUnreachable),
			"instrument did not answer", err, map[string]any{"binding": binding.String()})
	}

	derivation, err := metadata.Dispatch(profile, binding.Kind, h)
	if err != nil {
		return nil, err
	}

	ctx, cancelDerive := context.WithTimeout(ctx, defaults.MetadataHandlerTimeout)
	defer cancelDerive()
	return derivation(ctx, req)
}
