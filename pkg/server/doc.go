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

// Package server exposes a metadata provider over HTTP.
//
// # Endpoints
//
//   - POST {location}: derive header entries for an exposure request
//   - GET /health: liveness probe
//   - GET /ready: readiness probe, 503 until the provider started and its instrument answered
//   - GET /metrics: Prometheus metrics
//
// The metadata route takes an exposure request and returns the header
// entries in derivation order:
//
//	curl -s -X POST localhost:7667/Headers/0 \
//	  -d '{"exptime": 30, "type": "object", "shutter": "OPEN"}'
//
//	[{"keyword":"FILTER","value":"R","comment":"Filter used for this observation"}]
//
// # Errors
//
// Failures are returned as ErrorResponse bodies. The status is derived from
// the error code:
//
//	INVALID_REQUEST        400
//	INSTRUMENT_UNREACHABLE 503
//	TELEMETRY_UNAVAILABLE  502
//	TIMEOUT                504
//	CONFIGURATION          500
//	DISPATCH               500
//
// # Middleware
//
// Metadata requests pass through metrics, API version negotiation, request
// ID, panic recovery, rate limiting and request logging, in that order.
// The API version is negotiated from an Accept header such as
// application/vnd.astroufsc.headers.v1+json and echoed in X-API-Version.
//
// # Lifecycle
//
// Server.Run starts the provider, which binds and registers with its instrument,
// then serves until SIGINT or SIGTERM. Shutdown drains in-flight requests
// and deregisters the provider.
//
// # Environment
//
//   - PORT: overrides the listen port
//   - SHUTDOWN_TIMEOUT_SECONDS: overrides the graceful shutdown timeout
package server
