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

package renderer

import (
	_ "embed"
	"log/slog"
	"strings"
	"text/template"

	"github.com/ttomsu/halyard/pkg/artifact"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

//go:embed templates/secret.yml.tmpl
var secretTemplate string

//go:embed templates/configMap.yml.tmpl
var configMapTemplate string

// TemplateFunc looks up template content by reference.
type TemplateFunc func(ref artifact.TemplateRef) (string, bool)

// NewTemplateGetter creates a TemplateFunc from a map of references to content.
func NewTemplateGetter(templates map[artifact.TemplateRef]string) TemplateFunc {
	return func(ref artifact.TemplateRef) (string, bool) {
		tmpl, ok := templates[ref]
		return tmpl, ok
	}
}

// DefaultTemplates serves the embedded Secret and ConfigMap manifests.
var DefaultTemplates = NewTemplateGetter(map[artifact.TemplateRef]string{
	artifact.SecretTemplateRef:    secretTemplate,
	artifact.ConfigMapTemplateRef: configMapTemplate,
})

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplates replaces the template lookup.
func WithTemplates(fn TemplateFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.templates = fn
		}
	}
}

// Renderer renders manifest templates written with {% and %} delimiters.
type Renderer struct {
	templates TemplateFunc
}

var _ artifact.Renderer = (*Renderer)(nil)

// New creates a Renderer backed by DefaultTemplates unless overridden.
func New(opts ...Option) *Renderer {
	r := &Renderer{templates: DefaultTemplates}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render evaluates the referenced template against bindings.
// Values are substituted verbatim; every referenced binding must be present.
func (r *Renderer) Render(ref artifact.TemplateRef, bindings artifact.Bindings) (string, error) {
	content, ok := r.templates(ref)
	if !ok {
		return "", apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			"template not found: "+string(ref),
			map[string]any{"template": string(ref)})
	}

	tmpl, err := template.New(string(ref)).
		Delims(artifact.TemplateLeftDelim, artifact.TemplateRightDelim).
		Funcs(funcMap).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return "", apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to parse template", err,
			map[string]any{"template": string(ref)})
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, map[string]any(bindings)); err != nil {
		return "", apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to execute template", err,
			map[string]any{"template": string(ref)})
	}

	slog.Debug("template rendered",
		"template", ref,
		"size_bytes", buf.Len(),
	)

	return buf.String(), nil
}

// RenderSpec renders an artifact spec with its own template and bindings.
func (r *Renderer) RenderSpec(spec *artifact.Spec) (string, error) {
	if spec == nil {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "artifact spec is required")
	}
	out, err := r.Render(spec.TemplateRef, spec.Bindings)
	if err != nil {
		return "", apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to render artifact "+spec.Name, err,
			map[string]any{"artifact": spec.Name, "kind": spec.Kind.String()})
	}
	return out, nil
}

var funcMap = template.FuncMap{
	// quote renders s as a double-quoted scalar.
	"quote": func(s string) string {
		return `"` + artifact.EscapeJSONString(s) + `"`
	},
}
