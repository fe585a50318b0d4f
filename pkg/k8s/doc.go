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

// Package k8s groups the Kubernetes integration used to apply rendered artifacts.
//
// # Sub-packages
//
// client: clientset construction from a kubeconfig, a context override, or the
// in-cluster service account.
//
//	clientset, _, err := client.BuildKubeClient("", "staging")
//
// apply: server-side apply of rendered Secret and ConfigMap manifests.
//
//	applier := apply.NewApplier(clientset)
//	res, err := applier.Apply(ctx, rendered)
//
// Applies are throttled by a shared token bucket and each call is bounded by
// defaults.K8sApplyTimeout.
package k8s
