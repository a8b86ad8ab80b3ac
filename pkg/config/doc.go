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

// Package config loads the headersd YAML configuration file.
//
//	location: /T80SHeaders/telescope
//	profile: t80s
//	manager: {host: 192.168.10.10, port: 7667}
//	instruments:
//	  telescope: /Telescope/0
//	remote: {base_url: http://192.168.10.10:7666, timeout: 10s}
//	server: {address: "", port: 7667}
//
// Exactly one instrument slot must be set. Empty fields take the defaults
// applied by ApplyDefaults.
package config
