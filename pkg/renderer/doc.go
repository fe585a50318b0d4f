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

// Package renderer turns artifact specs into Kubernetes manifests.
//
// Templates use {% and %} as action delimiters, the same markers the artifact
// sanitizer strips from file content, so bound values can never open a new
// directive. Two manifests are embedded:
//
//	kubernetes/manifests/secret.yml     Secret with base64 data values
//	kubernetes/manifests/configMap.yml  ConfigMap with escaped string values
//
// Example:
//
//	spec, err := artifact.NewBuilder().BuildConfigMap(ctx, "spinnaker", "spin-clouddriver",
//	    "spin-clouddriver-files", sources)
//	if err != nil {
//	    return err
//	}
//	manifest, err := renderer.New().RenderSpec(spec)
//
// Bound values are inserted verbatim. Map ranges iterate in sorted key order,
// so a spec always renders to the same bytes.
package renderer
