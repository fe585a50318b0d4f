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

package artifact

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

var (
	// Artifact build metrics
	buildTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "halctl_artifact_builds_total",
			Help: "Total number of artifact spec builds by kind and result",
		},
		[]string{"kind", "result"},
	)
	buildErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "halctl_artifact_build_errors_total",
			Help: "Total number of failed artifact spec builds by kind and error code",
		},
		[]string{"kind", "code"},
	)
	buildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "halctl_artifact_build_duration_seconds",
			Help:    "Duration of artifact spec builds in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"kind"},
	)
	encodedBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "halctl_artifact_encoded_bytes_total",
			Help: "Total number of encoded content bytes bound into artifacts",
		},
		[]string{"kind"},
	)
)

func recordBuild(kind Kind, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
		code := apperrors.CodeOf(err)
		if code == "" {
			code = apperrors.ErrCodeInternal
		}
		buildErrors.WithLabelValues(kind.String(), string(code)).Inc()
	}
	buildTotal.WithLabelValues(kind.String(), result).Inc()
	buildDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
}
