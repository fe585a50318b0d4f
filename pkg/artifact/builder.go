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
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"time"

	"github.com/ttomsu/halyard/pkg/defaults"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

// Request describes one artifact to build.
type Request struct {
	// Namespace is the Kubernetes namespace the artifact is rendered into.
	Namespace string
	// ClusterName identifies the service cluster the artifact belongs to.
	ClusterName string
	// Name is the base artifact name; the fingerprint is appended to it.
	Name string
	// Kind selects Secret or ConfigMap encoding.
	Kind Kind
	// Sources are the content sources in caller order.
	Sources []Source
}

// Validate checks that the request names a valid kind and a base name.
func (r Request) Validate() error {
	if r.Name == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "artifact name is required")
	}
	if !r.Kind.IsValid() {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"unsupported artifact kind: "+r.Kind.String(),
			map[string]any{"artifact": r.Name})
	}
	return nil
}

// Option configures a Builder.
type Option func(*Builder)

// WithFileReader replaces the function used to read file sources.
func WithFileReader(fn func(path string) ([]byte, error)) Option {
	return func(b *Builder) {
		if fn != nil {
			b.readFile = fn
		}
	}
}

// WithTemplateRef overrides the template resource attached to specs of kind.
func WithTemplateRef(kind Kind, ref TemplateRef) Option {
	return func(b *Builder) {
		b.templateRefs[kind] = ref
	}
}

// Builder assembles artifact specs from content sources.
// A Builder holds no per-build state and is safe for concurrent use.
type Builder struct {
	readFile     func(path string) ([]byte, error)
	templateRefs map[Kind]TemplateRef
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		readFile: os.ReadFile,
		templateRefs: map[Kind]TemplateRef{
			KindSecret:    KindSecret.TemplateRef(),
			KindConfigMap: KindConfigMap.TemplateRef(),
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildSecret builds a Secret spec.
func (b *Builder) BuildSecret(ctx context.Context, namespace, clusterName, name string, sources []Source) (*Spec, error) {
	return b.Build(ctx, Request{
		Namespace:   namespace,
		ClusterName: clusterName,
		Name:        name,
		Kind:        KindSecret,
		Sources:     sources,
	})
}

// BuildConfigMap builds a ConfigMap spec.
func (b *Builder) BuildConfigMap(ctx context.Context, namespace, clusterName, name string, sources []Source) (*Spec, error) {
	return b.Build(ctx, Request{
		Namespace:   namespace,
		ClusterName: clusterName,
		Name:        name,
		Kind:        KindConfigMap,
		Sources:     sources,
	})
}

// Build resolves and encodes every source, names the artifact after the
// fingerprint of the resulting content and populates its bindings.
//
// The first failure aborts the build; no partial spec is ever returned.
// Sources sharing a name overwrite each other in order, the last one wins.
func (b *Builder) Build(ctx context.Context, req Request) (spec *Spec, err error) {
	start := time.Now()
	defer func() {
		recordBuild(req.Kind, start, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	content := NewContentMap()
	for _, src := range req.Sources {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
		}

		value, err := b.encodeSource(src, req.Kind)
		if err != nil {
			return nil, withArtifactContext(err, req.Name, src)
		}

		if content.Set(src.Name(), value) {
			slog.Warn("duplicate content source name, last write wins",
				"artifact", req.Name,
				"source", src.Name(),
			)
		}
		if len(value) > defaults.MaxSourceBytes {
			slog.Warn("encoded content exceeds kubernetes object size limit",
				"artifact", req.Name,
				"source", src.Name(),
				"size_bytes", len(value),
			)
		}
		encodedBytes.WithLabelValues(req.Kind.String()).Add(float64(len(value)))
	}

	name := FingerprintName(req.Name, content)

	spec = &Spec{
		Kind:        req.Kind,
		Name:        name,
		TemplateRef: b.templateRefs[req.Kind],
		Bindings: Bindings{
			BindingFiles:       content.Map(),
			BindingName:        name,
			BindingNamespace:   req.Namespace,
			BindingClusterName: req.ClusterName,
		},
	}

	slog.Debug("artifact spec built",
		"kind", req.Kind,
		"name", name,
		"namespace", req.Namespace,
		"cluster", req.ClusterName,
		"entries", content.Len(),
		"duration", time.Since(start).Round(time.Microsecond),
	)

	return spec, nil
}

func (b *Builder) encodeSource(src Source, kind Kind) (string, error) {
	payload, err := src.resolve(b.readFile)
	if err != nil {
		return "", err
	}

	if kind == KindConfigMap && src.IsFile() {
		// validate before sanitizing so offsets refer to the file as read
		if err := validateText(payload); err != nil {
			return "", err
		}
		return EscapeJSONString(Sanitize(string(payload))), nil
	}

	return Encode(payload, kind)
}

// withArtifactContext adds the artifact and source identity to a build failure.
func withArtifactContext(err error, artifactName string, src Source) error {
	var se *apperrors.StructuredError
	if !stderrors.As(err, &se) {
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to build artifact "+artifactName, err,
			map[string]any{"artifact": artifactName, "source": src.Name()})
	}

	if se.Context == nil {
		se.Context = make(map[string]any)
	}
	se.Context["artifact"] = artifactName
	se.Context["source"] = src.Name()
	if src.IsFile() {
		if _, ok := se.Context["path"]; !ok {
			se.Context["path"] = src.Path()
		}
	}
	return se
}
