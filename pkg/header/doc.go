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

// Package header defines FITS header entries as produced by the metadata provider.
//
// An Entry is a (keyword, value, comment) triple. Values are restricted at
// compile time to numbers, strings and booleans through the Scalar generic,
// while the Value interface lets entries of mixed types share one ordered slice:
//
//	entries := header.NewList(4).
//	    AddString("IMAGETYP", "object", "Custom. Image type").
//	    AddFloat64("EXPTIME", 30, "Custom. exposure time in seconds").
//	    AddInt("WCSAXES", 2, "wcs dimensionality").
//	    AddString("HIERARCH T80S TEL OPER", "CHIMERA", "").
//	    Entries()
//
// Ordering is significant and follows conventional FITS card ordering. Duplicate
// keywords are tolerated; deduplication is the concern of the FITS writer.
//
// Keywords are either standard (at most eight characters) or use the
// "HIERARCH " long-keyword convention; ValidateKeyword checks both forms.
// This package does not encode FITS cards.
package header
