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

// Package artifact builds Kubernetes Secret and ConfigMap specifications from
// named content sources.
//
// # Overview
//
// A build takes an ordered list of sources, each either inline text or a file,
// and produces a Spec: the artifact kind, a content-derived name, the template
// resource for the kind and the bindings the renderer substitutes into it.
//
//	b := artifact.NewBuilder()
//	spec, err := b.BuildConfigMap(ctx, "spinnaker", "spin-clouddriver", "clouddriver-files",
//	    []artifact.Source{
//	        artifact.Inline("greeting", "hello"),
//	        artifact.File("/home/spinnaker/.hal/default/profiles/clouddriver-local.yml"),
//	    })
//
// # Encoding
//
// Secret values are base64 encoded and may hold arbitrary bytes. ConfigMap
// values must be UTF-8 text and are escaped as the body of a double-quoted
// JSON string, which the ConfigMap template embeds verbatim.
//
// File content bound for a ConfigMap is sanitized first: every "{%" and "%}"
// is deleted so that the renderer, which uses those delimiters, never
// evaluates text from a foreign file. Inline text is trusted and not sanitized.
//
// # Naming
//
// The final name is the base name, a dash and the decimal Fingerprint of the
// content map. The fingerprint is independent of source order, so the same
// content always yields the same name and any change to a name or value
// yields a new one with overwhelming probability.
//
// # Errors
//
// Unreadable files fail with errors.ErrCodeConfigFileRead and non-UTF-8
// ConfigMap content with errors.ErrCodeEncoding. The structured error context
// carries the artifact, source and path. A failed build returns no spec.
package artifact
