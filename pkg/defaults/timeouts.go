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

package defaults

import "time"

// Build limits for artifact generation.
const (
	// BuildConcurrency bounds how many independent artifact builds run at once.
	BuildConcurrency = 4

	// MaxSourceBytes is the largest single content source accepted for an artifact.
	// Kubernetes rejects Secret and ConfigMap objects larger than 1MiB.
	MaxSourceBytes = 1 << 20
)

// Kubernetes timeouts and limits for K8s API operations.
const (
	// K8sApplyTimeout is the timeout for a single server-side apply call.
	K8sApplyTimeout = 30 * time.Second

	// K8sApplyTotalTimeout bounds applying every rendered artifact of one invocation.
	K8sApplyTotalTimeout = 2 * time.Minute

	// K8sApplyRateLimit is the sustained apply rate in requests per second.
	K8sApplyRateLimit = 5

	// K8sApplyBurst is the number of applies allowed before throttling starts.
	K8sApplyBurst = 10
)

// OCI timeouts for registry operations.
const (
	// OCIPushTimeout is the timeout for packaging and pushing rendered artifacts.
	OCIPushTimeout = 2 * time.Minute
)

// CLI timeouts for command-line operations.
const (
	// CLIRenderTimeout is the default timeout for the render command.
	CLIRenderTimeout = 5 * time.Minute
)
