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
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/astroufsc/fitsheaders/pkg/config"
	"github.com/astroufsc/fitsheaders/pkg/instrument"
	"github.com/astroufsc/fitsheaders/pkg/instrument/remote"
	"github.com/astroufsc/fitsheaders/pkg/metadata"
	"github.com/astroufsc/fitsheaders/pkg/serializer"
	"github.com/astroufsc/fitsheaders/pkg/server"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Value: string(serializer.FormatTable),
		Usage: fmt.Sprintf("Output format (supported values: %v)", serializer.SupportedFormats()),
	}
)

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// loadConfig reads the file named by --config.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return nil, fmt.Errorf("a configuration file is required: set --config or %s", config.EnvConfigPath)
	}
	return config.Load(path)
}

func remoteResolver(cfg *config.Config) *remote.Resolver {
	return remote.NewResolver(cfg.Remote.BaseURL,
		remote.WithTimeout(cfg.Remote.Timeout),
		remote.WithUserAgent(name+"/"+version),
	)
}

// newProvider builds the metadata provider described by cfg.
func newProvider(cfg *config.Config, resolver instrument.Resolver) (*metadata.Provider, error) {
	profile, err := metadata.NewProfile(cfg.Profile, nil)
	if err != nil {
		return nil, err
	}
	return metadata.New(cfg.Instruments.Slots(),
		metadata.WithLocation(cfg.Location),
		metadata.WithManager(cfg.Manager.Host, cfg.Manager.Port),
		metadata.WithProfile(profile),
		metadata.WithResolver(resolver),
	)
}

// serverConfig maps the file's server section onto the HTTP server
// configuration. cfg.Server.Port already carries any PORT override.
func serverConfig(cfg *config.Config) *server.Config {
	sc := server.NewConfig()
	sc.Name = name
	sc.Version = version
	sc.Address = cfg.Server.Address
	sc.Port = cfg.Server.Port
	if cfg.Server.RateLimit > 0 {
		sc.RateLimit = rate.Limit(cfg.Server.RateLimit)
	}
	if cfg.Server.RateLimitBurst > 0 {
		sc.RateLimitBurst = cfg.Server.RateLimitBurst
	}
	return sc
}

func closeWriter(w *serializer.Writer) {
	if err := w.Close(); err != nil {
		slog.Warn("failed to close serializer", "error", err)
	}
}
