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

// Package secrets resolves encrypted secret references in content sources.
//
// A reference names a secret engine and its parameters:
//
//	encrypted:s3!r:us-west-2!b:my-bucket!f:kubeconfig
//
// Decryption itself is delegated to Engine implementations registered on a
// Registry. This package parses references and swaps decrypted values into
// artifact sources before a build.
//
// KubernetesEngine ships with the package and reads keys of existing Secrets:
//
//	encrypted:k8s!n:spin-secrets!k:github-token
//	encrypted:k8s!n:shared!k:kubeconfig!ns:ops
package secrets
