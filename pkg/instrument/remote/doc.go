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

// Package remote implements instrument handles over the manager's HTTP/JSON
// protocol.
//
// Every member is read with
//
//	GET {base}{location}/{member}
//
// and answered with an envelope {"value": ...}. Configuration attributes are
// read from {location}/attributes/{name}. Registration uses
//
//	PUT {base}{location}/metadata_method   {"value": "<address>"}
//
// with a null value to deregister. Transport failures are reported as
// INSTRUMENT_UNREACHABLE; non-2xx answers as TELEMETRY_UNAVAILABLE.
package remote
