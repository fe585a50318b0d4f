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

// Package apply server-side applies rendered artifacts to a cluster.
//
// Each manifest is decoded into its typed form and sent as an apply
// configuration under the "halctl" field manager with Force set, so the call
// creates or updates atomically. Requests are throttled by a token bucket and
// bounded by the timeouts in pkg/defaults.
//
//	clientset, _, err := client.BuildKubeClient(kubeconfig, "")
//	if err != nil {
//	    return err
//	}
//	results, err := apply.NewApplier(clientset).ApplyAll(ctx, docs)
package apply
