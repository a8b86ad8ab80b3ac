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
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/astroufsc/fitsheaders/pkg/defaults"
	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
	"github.com/astroufsc/fitsheaders/pkg/serializer"
)

// CheckResult summarizes a validated configuration.
type CheckResult struct {
	Location   string `json:"location" yaml:"location"`
	Profile    string `json:"profile" yaml:"profile"`
	Kind       string `json:"kind" yaml:"kind"`
	Instrument string `json:"instrument" yaml:"instrument"`
	Callback   string `json:"callback" yaml:"callback"`
	Manager    string `json:"manager" yaml:"manager"`
	Reachable  *bool  `json:"reachable,omitempty" yaml:"reachable,omitempty"`
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate a configuration file and its instrument binding",
		Description: `Load the configuration, apply defaults and verify exactly one instrument is
bound. With --ping the bound instrument is also resolved and pinged.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "ping",
				Usage: "Ping the bound instrument",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			binding, err := cfg.Binding()
			if err != nil {
				return err
			}

			p, err := newProvider(cfg, remoteResolver(cfg))
			if err != nil {
				return err
			}

			res := CheckResult{
				Location:   cfg.Location,
				Profile:    cfg.Profile,
				Kind:       binding.Kind.String(),
				Instrument: binding.Location,
				Callback:   p.CallbackAddress(),
				Manager:    cfg.Remote.BaseURL,
			}

			if cmd.Bool("ping") {
				reachable := true
				h, err := remoteResolver(cfg).Resolve(ctx, binding.Kind, binding.Location)
				if err == nil {
					pingCtx, cancel := context.WithTimeout(ctx, defaults.InstrumentPingTimeout)
					err = h.Ping(pingCtx)
					cancel()
				}
				if err != nil {
					reachable = false
					slog.Warn("instrument did not answer", "binding", binding.String(), "error", err)
				}
				res.Reachable = &reachable
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(w)
			if err := w.Serialize(ctx, res); err != nil {
				return err
			}

			if res.Reachable != nil && !*res.Reachable {
				return fherrors.NewWithContext(fherrors.ErrCodeUnreachable, "instrument unreachable",
					map[string]any{"binding": binding.String()})
			}
			return nil
		},
	}
}
