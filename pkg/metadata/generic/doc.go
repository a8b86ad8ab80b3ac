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

// Package generic implements the "headers" profile: header cards any
// observatory can derive from standard instrument interfaces.
//
// Every comment starts with "Custom." so the cards can be told apart from
// those the instrument drivers write themselves. The camera derivation adds
// a linear WCS (CRPIX1/2, CD1_1..CD2_2) only when the camera is configured
// with the telescope focal length.
package generic
