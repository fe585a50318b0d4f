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

// Package cli implements the halctl command line.
//
// # Commands
//
//	render   build, render, and optionally publish or apply one artifact
//	verify   check a rendered directory against its checksums.txt
//
// # Global Flags
//
//	--log-level   debug, info, warn, or error (env HALCTL_LOG_LEVEL)
//
// Logs are structured JSON on stderr; manifests go to stdout unless --output
// names a directory or an oci:// reference.
//
// # Usage
//
//	halctl render --kind ConfigMap --name spin-clouddriver-files \
//	    --namespace spinnaker --cluster spin-clouddriver \
//	    --from-file ./clouddriver.yml --output ./manifests
//
//	halctl verify --dir ./manifests
//
// Any failure prints the error and exits with status 1.
package cli
