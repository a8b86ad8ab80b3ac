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

// Package t80s implements the "t80s" profile for the T80-South telescope at
// Cerro Tololo.
//
// Most cards use the "HIERARCH T80S" long-keyword convention expected by the
// T80S archive. Hexapod focuser readings are rendered as padded fixed-point
// strings, and mirror or structure temperatures missing from the telescope
// sensor list are written as " INDEF ".
package t80s
