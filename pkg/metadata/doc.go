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

// Package metadata implements the header metadata provider.
//
// A Provider is bound to exactly one instrument, chosen from configuration
// slots by ResolveBinding. At Start it resolves and pings the instrument,
// registers its own callback address as the instrument's metadata method
// and fixes the derivation to call for every exposure:
//
//	p, err := metadata.New(metadata.Slots{instrument.KindTelescope: "/Telescope/0"},
//	    metadata.WithLocation("/Headers/telescope"),
//	    metadata.WithManager("192.168.10.10", 7666),
//	    metadata.WithResolver(remote.NewResolver("http://192.168.10.10:7666")))
//	if err != nil {
//	    return err
//	}
//	if err := p.Start(ctx); err != nil {
//	    return err
//	}
//	defer p.Stop(ctx)
//
//	entries, err := p.GetMetadata(ctx, req)
//
// Derivations come from a Profile. The "headers" profile writes generic
// "Custom." cards, the "t80s" profile writes the T80-South HIERARCH cards.
//
// An instrument that cannot be reached at Start leaves the provider
// available for health reporting, but every GetMetadata call fails with
// INSTRUMENT_UNREACHABLE.
package metadata
