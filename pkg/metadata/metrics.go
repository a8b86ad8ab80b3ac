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

package metadata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	fherrors "github.com/astroufsc/fitsheaders/pkg/errors"
)

var (
	metadataRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headers_metadata_requests_total",
			Help: "Total number of getMetadata calls",
		},
		[]string{"profile", "kind", "code"},
	)

	metadataDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "headers_metadata_duration_seconds",
			Help:    "getMetadata latency in seconds, including every telemetry read",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"profile", "kind"},
	)

	metadataEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "headers_metadata_entries",
			Help: "Number of header entries produced by the last successful getMetadata call",
		},
		[]string{"profile", "kind"},
	)

	instrumentAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "headers_instrument_available",
			Help: "Whether the bound instrument answered its startup ping (1) or not (0)",
		},
		[]string{"kind", "location"},
	)
)

// codeLabel is the metrics label for a getMetadata outcome.
func codeLabel(err error) string {
	if err == nil {
		return "OK"
	}
	if code := fherrors.CodeOf(err); code != "" {
		return string(code)
	}
	return "UNKNOWN"
}
