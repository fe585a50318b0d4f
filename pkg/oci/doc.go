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

// Package oci publishes rendered manifest directories as OCI artifacts.
//
// An output target is parsed with ParseOutputTarget and is one of:
//
//	-                                   standard output
//	./manifests                         local directory
//	oci://ghcr.io/spinnaker/files:v1    registry reference
//
// Push packs the directory into a single gzip layer under an OCI 1.1 manifest
// and copies it to the registry:
//
//	res, err := oci.Push(ctx, oci.PushOptions{
//	    SourceDir: "./manifests",
//	    Reference: ref.WithTag("v1"),
//	})
//
// Package does the same into a local OCI image layout, which is useful for
// air-gapped transfer.
//
// # Authentication
//
// Registry credentials come from the Docker configuration
// (~/.docker/config.json) and its credential helpers.
//
// # Artifact Type
//
// Artifacts carry the type "application/vnd.halyard.manifests.v1" so they
// are not mistaken for runnable images. Tar layers are reproducible; with a
// fixed ReproducibleTimestamp the same directory always yields the same digest.
package oci
