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

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

const (
	// URIScheme prefixes registry output targets, e.g. "oci://ghcr.io/org/manifests:v1".
	URIScheme = "oci://"
	// StdoutTarget writes manifests to standard output.
	StdoutTarget = "-"
)

// Reference is a parsed output target: standard output, a local directory,
// or an OCI registry reference.
type Reference struct {
	// IsOCI is set for registry targets.
	IsOCI bool
	// IsStdout is set for the "-" target.
	IsStdout bool
	// Registry is the registry host, e.g. "ghcr.io" or "localhost:5000".
	Registry string
	// Repository is the repository path, e.g. "spinnaker/manifests".
	Repository string
	// Tag is empty when none was given; the caller applies a default.
	Tag string
	// LocalPath is the output directory of non-OCI targets.
	LocalPath string
}

// ParseOutputTarget parses "-", a directory path, or an oci:// reference.
func ParseOutputTarget(target string) (*Reference, error) {
	if target == "" || target == StdoutTarget {
		return &Reference{IsStdout: true}, nil
	}
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}
	if _, ok := ref.(reference.Digested); ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI output target must not carry a digest")
	}

	registry := reference.Domain(ref)
	repository := reference.Path(ref)
	if err := ValidateRegistryReference(registry, repository); err != nil {
		return nil, err
	}

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	return &Reference{
		IsOCI:      true,
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// ValidateRegistryReference checks that registry and repository form a valid,
// fully qualified image name. A leading http:// or https:// on the registry is ignored.
func ValidateRegistryReference(registry, repository string) error {
	host := stripProtocol(registry)
	if host == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "registry is required")
	}
	if repository == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "repository is required")
	}

	named, err := reference.ParseNamed(host + "/" + repository)
	if err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid registry reference", err,
			map[string]any{"registry": registry, "repository": repository})
	}
	if reference.Domain(named) != host || reference.Path(named) != repository {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid registry reference",
			map[string]any{"registry": registry, "repository": repository})
	}
	return nil
}

// String returns the target as it would be written on the command line.
func (r *Reference) String() string {
	switch {
	case r.IsStdout:
		return StdoutTarget
	case !r.IsOCI:
		return r.LocalPath
	case r.Tag == "":
		return fmt.Sprintf("%s%s/%s", URIScheme, r.Registry, r.Repository)
	default:
		return fmt.Sprintf("%s%s/%s:%s", URIScheme, r.Registry, r.Repository, r.Tag)
	}
}

// ImageReference returns the image reference without the oci:// scheme,
// or an empty string for non-OCI targets.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of an OCI reference with tag set. Other targets are returned as is.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	c := *r
	c.Tag = tag
	return &c
}
