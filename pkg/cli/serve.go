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

	"github.com/astroufsc/fitsheaders/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Register with the bound instrument and serve header metadata over HTTP",
		Description: `Resolve the single instrument configured in the file, register this
controller as its metadata source and serve header derivations at the
configured location until interrupted.

If the instrument cannot be reached at startup the server still runs, reports
not ready on /ready and answers metadata requests with INSTRUMENT_UNREACHABLE.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			p, err := newProvider(cfg, remoteResolver(cfg))
			if err != nil {
				return err
			}

			slog.Info("serving metadata",
				"location", p.Location(),
				"profile", p.Profile(),
				"binding", p.Binding().String(),
				"callback", p.CallbackAddress(),
			)

			return server.New(p, server.WithConfig(serverConfig(cfg))).Run(ctx)
		},
	}
}
