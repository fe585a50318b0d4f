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

// Package manifest decodes, formats, and writes rendered Kubernetes manifests.
//
// Rendered documents are decoded into k8s.io/api types for validation and
// apply, reformatted with Prettify, and written to an output directory as
// <name>.yaml files plus a checksums.txt:
//
//	res, err := manifest.NewWriter().WriteDir(ctx, "out", docs)
//	if err != nil {
//	    return err
//	}
//	slog.Info("written", "files", len(res.Files))
package manifest
