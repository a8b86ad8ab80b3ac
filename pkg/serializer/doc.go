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

// Package serializer writes header entries and other data as JSON, YAML or
// a human-readable table, and reads request documents back from JSON or YAML.
//
// The table format keeps header entries in the order they were derived:
//
//	KEYWORD   VALUE                       COMMENT
//	-------   -----                       -------
//	DATE-OBS  2026-01-02T03:04:05.000000  Custom. Date exposure started
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, entries)
//
// Request files:
//
//	req, err := serializer.FromFile[exposure.Request]("exposure.yaml")
package serializer
