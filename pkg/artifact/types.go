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

package artifact

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

// Kind identifies the type of Kubernetes artifact generated from content sources.
type Kind string

const (
	// KindSecret produces a Secret manifest with base64 encoded values.
	KindSecret Kind = "Secret"
	// KindConfigMap produces a ConfigMap manifest with JSON-string escaped values.
	KindConfigMap Kind = "ConfigMap"
)

// maxSuggestionDistance bounds how far a mistyped kind may be from a valid one
// for ParseKind to suggest it.
const maxSuggestionDistance = 3

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the supported kinds.
func (k Kind) IsValid() bool {
	return k == KindSecret || k == KindConfigMap
}

// TemplateRef returns the manifest template resource for the kind.
func (k Kind) TemplateRef() TemplateRef {
	switch k {
	case KindSecret:
		return SecretTemplateRef
	case KindConfigMap:
		return ConfigMapTemplateRef
	default:
		return ""
	}
}

// SupportedKinds returns all supported artifact kinds.
func SupportedKinds() []Kind {
	return []Kind{KindSecret, KindConfigMap}
}

// ParseKind parses a kind name case-insensitively.
// Unknown names produce an INVALID_REQUEST error that suggests the closest kind.
func ParseKind(s string) (Kind, error) {
	fold := cases.Fold()
	in := fold.String(strings.TrimSpace(s))

	best := Kind("")
	bestDistance := maxSuggestionDistance + 1
	for _, k := range SupportedKinds() {
		name := fold.String(k.String())
		if in == name {
			return k, nil
		}
		if d := levenshtein.ComputeDistance(in, name); d < bestDistance {
			best, bestDistance = k, d
		}
	}

	msg := fmt.Sprintf("unknown artifact kind %q, valid kinds are: Secret, ConfigMap", s)
	if best != "" && in != "" {
		msg = fmt.Sprintf("unknown artifact kind %q, did you mean %q?", s, best)
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidRequest, msg)
}

// TemplateRef is an opaque identifier of a manifest template resource.
// It is resolved by the Renderer, not by this package.
type TemplateRef string

const (
	// SecretTemplateRef is the template resource used for Secret artifacts.
	SecretTemplateRef TemplateRef = "kubernetes/manifests/secret.yml"
	// ConfigMapTemplateRef is the template resource used for ConfigMap artifacts.
	ConfigMapTemplateRef TemplateRef = "kubernetes/manifests/configMap.yml"
)

// Binding keys every Spec carries.
const (
	BindingFiles       = "files"
	BindingName        = "name"
	BindingNamespace   = "namespace"
	BindingClusterName = "clusterName"
)

// Bindings are the named values handed to the template renderer.
type Bindings map[string]any

// Spec is a named, binding-populated artifact ready for rendering.
type Spec struct {
	Kind        Kind
	Name        string
	TemplateRef TemplateRef
	Bindings    Bindings
}

// ExtendBindings adds caller-supplied bindings to the spec.
// The required bindings (files, name, namespace, clusterName) cannot be replaced.
func (s *Spec) ExtendBindings(extra map[string]any) error {
	for k := range extra {
		if isReservedBinding(k) {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("binding %q is reserved", k),
				map[string]any{"artifact": s.Name})
		}
	}
	if s.Bindings == nil {
		s.Bindings = make(Bindings, len(extra))
	}
	for k, v := range extra {
		s.Bindings[k] = v
	}
	return nil
}

// Files returns the encoded content bound to the spec keyed by source name.
func (s *Spec) Files() map[string]string {
	files, _ := s.Bindings[BindingFiles].(map[string]string)
	return files
}

func isReservedBinding(key string) bool {
	switch key {
	case BindingFiles, BindingName, BindingNamespace, BindingClusterName:
		return true
	default:
		return false
	}
}

// Renderer turns a template resource and its bindings into a manifest document.
type Renderer interface {
	Render(ref TemplateRef, bindings Bindings) (string, error)
}
