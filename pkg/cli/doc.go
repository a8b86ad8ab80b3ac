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

// Package cli implements the headersd command line.
//
// Commands:
//
//	headersd serve    --config headersd.yaml
//	headersd metadata --config headersd.yaml --exptime 30 --type object
//	headersd metadata --fake --kind telescope --profile t80s --format json
//	headersd check    --config headersd.yaml --ping
//
// The configuration path may also be set with HEADERSD_CONFIG and the log
// level with HEADERSD_LOG_LEVEL.
package cli
