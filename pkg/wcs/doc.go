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

// Package wcs derives the World Coordinate System header entries of a frame.
//
// The transform is linear (TAN projection keywords, CD matrix form):
//
//	scale  = binFactor * (180/pi / focalLength[mm]) * (pixelSize[um] * 1e-3)
//	CRPIX  = floor(full/2) - offset - 1
//	CD1_1  =  scaleX * cos(theta)    CD1_2 = -scaleY * sin(theta)
//	CD2_1  =  scaleX * sin(theta)    CD2_2 =  scaleY * cos(theta)
//
// Cameras without a telescope focal length carry no WCS at all; a missing
// block means "no astrometric solution", never a zero scale.
//
// References:
//   - http://www.astro.iag.usp.br/~moser/notes/GAi_FITSimgs.html
//   - http://adsabs.harvard.edu/abs/2002A%26A...395.1061G
//   - http://adsabs.harvard.edu/abs/2002A%26A...395.1077C
package wcs
