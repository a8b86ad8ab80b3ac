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

// Package defaults provides centralized configuration constants for the header provider.
//
// Timeouts are organized by component:
//
//   - Instrument timeouts: proxy resolution, ping and telemetry reads
//   - Handler timeouts: metadata HTTP request processing
//   - Server timeouts: HTTP server configuration
//   - HTTP client timeouts: outbound requests to instrument proxies
//
// Callers should respect parent context deadlines when they are shorter:
//
//	ctx, cancel := context.WithTimeout(parent, defaults.InstrumentPingTimeout)
//	defer cancel()
package defaults
