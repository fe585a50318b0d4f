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

// Package kubectl assembles kubectl command lines for Kubernetes accounts.
//
// Commands are returned as argument lists, binary first:
//
//	kubectl --context prod --kubeconfig /home/spin/.kube/config -n=spinnaker get po -l=cluster=spin-gate -o=jsonpath='{.items[0].metadata.name}'
//
// Accounts using an in-cluster service account get a bare "kubectl" prefix.
package kubectl
