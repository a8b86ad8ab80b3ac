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

// Package fake provides in-memory instrument handles for tests and dry runs.
//
// Every handle embeds Base, which stores configuration attributes and lets
// callers inject failures per method:
//
//	cam := fake.NewCamera("/FakeCamera/fake", time.Now())
//	cam.Errors = map[string]error{"PixelSize": errors.New("driver busy")}
package fake
