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

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

func TestConnect_DryRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "explicit pod",
			args: []string{"-n", "spinnaker", "--pod", "spin-gate-5d8f", "--port", "8084", "--context", "prod"},
			want: "kubectl --context prod -n=spinnaker port-forward spin-gate-5d8f 8084\n",
		},
		{
			name: "service lookup",
			args: []string{"-n", "spinnaker", "--service", "spin-deck", "--port", "9000"},
			want: "kubectl -n=spinnaker get po -l=cluster=spin-deck -o=jsonpath='{.items[0].metadata.name}'\n" +
				"kubectl -n=spinnaker port-forward <pod> 9000\n",
		},
		{
			name: "in cluster",
			args: []string{"-n", "spinnaker", "--pod", "spin-echo-1", "--port", "8089", "--in-cluster", "--kubeconfig", "/ignored"},
			want: "kubectl -n=spinnaker port-forward spin-echo-1 8089\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, append(append([]string{"connect"}, tt.args...), "--dry-run")...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConnect_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no service or pod", args: []string{"connect", "--port", "9000"}},
		{name: "port out of range", args: []string{"connect", "--pod", "p", "--port", "70000"}},
		{name: "port zero", args: []string{"connect", "--pod", "p", "--port", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest), "got %v", err)
		})
	}

	_, err := runCLI(t, "connect", "--pod", "p")
	assert.Error(t, err)
}
