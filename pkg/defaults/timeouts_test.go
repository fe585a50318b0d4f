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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// K8s timeouts
		{"K8sApplyTimeout", K8sApplyTimeout, 10 * time.Second, 60 * time.Second},
		{"K8sApplyTotalTimeout", K8sApplyTotalTimeout, 30 * time.Second, 10 * time.Minute},

		// OCI timeouts
		{"OCIPushTimeout", OCIPushTimeout, 30 * time.Second, 10 * time.Minute},

		// CLI timeouts
		{"CLIRenderTimeout", CLIRenderTimeout, 1 * time.Minute, 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestApplyTimeoutLessThanTotal(t *testing.T) {
	// A single apply must fit inside the budget for the whole invocation
	if K8sApplyTimeout >= K8sApplyTotalTimeout {
		t.Errorf("K8sApplyTimeout (%v) should be less than K8sApplyTotalTimeout (%v)",
			K8sApplyTimeout, K8sApplyTotalTimeout)
	}
}

func TestCLIRenderTimeoutCoversSubOperations(t *testing.T) {
	if CLIRenderTimeout < K8sApplyTotalTimeout {
		t.Errorf("CLIRenderTimeout (%v) should be at least K8sApplyTotalTimeout (%v)",
			CLIRenderTimeout, K8sApplyTotalTimeout)
	}
	if CLIRenderTimeout < OCIPushTimeout {
		t.Errorf("CLIRenderTimeout (%v) should be at least OCIPushTimeout (%v)",
			CLIRenderTimeout, OCIPushTimeout)
	}
}

func TestLimits(t *testing.T) {
	if BuildConcurrency < 1 {
		t.Errorf("BuildConcurrency (%d) must be positive", BuildConcurrency)
	}
	if K8sApplyBurst < K8sApplyRateLimit {
		t.Errorf("K8sApplyBurst (%d) should be at least K8sApplyRateLimit (%d)", K8sApplyBurst, K8sApplyRateLimit)
	}
	if MaxSourceBytes != 1048576 {
		t.Errorf("MaxSourceBytes = %d, want 1MiB", MaxSourceBytes)
	}
}
