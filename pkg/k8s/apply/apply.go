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

package apply

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/ttomsu/halyard/pkg/artifact"
	"github.com/ttomsu/halyard/pkg/defaults"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
	"github.com/ttomsu/halyard/pkg/k8s/client"
	"github.com/ttomsu/halyard/pkg/manifest"
)

// FieldManager owns the fields halctl applies.
const FieldManager = "halctl"

// Result identifies an applied object.
type Result struct {
	Kind      artifact.Kind `json:"kind" yaml:"kind"`
	Namespace string        `json:"namespace" yaml:"namespace"`
	Name      string        `json:"name" yaml:"name"`
}

// Option configures an Applier.
type Option func(*Applier)

// WithLimiter replaces the API request limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(a *Applier) {
		if l != nil {
			a.limiter = l
		}
	}
}

// WithTimeout bounds each apply request.
func WithTimeout(d time.Duration) Option {
	return func(a *Applier) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithFieldManager sets the server-side apply field manager.
func WithFieldManager(name string) Option {
	return func(a *Applier) {
		if name != "" {
			a.fieldManager = name
		}
	}
}

// Applier server-side applies rendered Secret and ConfigMap manifests.
type Applier struct {
	client       client.Interface
	limiter      *rate.Limiter
	timeout      time.Duration
	fieldManager string
}

// NewApplier creates an Applier for the given client.
func NewApplier(c client.Interface, opts ...Option) *Applier {
	a := &Applier{
		client:       c,
		limiter:      rate.NewLimiter(rate.Limit(defaults.K8sApplyRateLimit), defaults.K8sApplyBurst),
		timeout:      defaults.K8sApplyTimeout,
		fieldManager: FieldManager,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply decodes one rendered manifest and applies it, taking ownership of
// conflicting fields. Manifests without a namespace go to "default".
func (a *Applier) Apply(ctx context.Context, doc string) (*Result, error) {
	kind, err := manifest.KindOf(doc)
	if err != nil {
		return nil, err
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "apply rate limit wait cancelled", err)
	}

	applyCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	opts := metav1.ApplyOptions{FieldManager: a.fieldManager, Force: true}

	var res *Result
	switch kind {
	case artifact.KindSecret:
		res, err = a.applySecret(applyCtx, doc, opts)
	case artifact.KindConfigMap:
		res, err = a.applyConfigMap(applyCtx, doc, opts)
	default:
		err = apperrors.New(apperrors.ErrCodeInvalidRequest, "unsupported artifact kind: "+kind.String())
	}
	if err != nil {
		return nil, err
	}

	slog.Info("artifact applied",
		"kind", res.Kind,
		"namespace", res.Namespace,
		"name", res.Name,
	)
	return res, nil
}

// ApplyAll applies documents in order and stops at the first failure.
// The whole batch is bounded by defaults.K8sApplyTotalTimeout.
func (a *Applier) ApplyAll(ctx context.Context, docs []string) ([]*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.K8sApplyTotalTimeout)
	defer cancel()

	results := make([]*Result, 0, len(docs))
	for _, doc := range docs {
		res, err := a.Apply(ctx, doc)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (a *Applier) applySecret(ctx context.Context, doc string, opts metav1.ApplyOptions) (*Result, error) {
	s, err := manifest.DecodeSecret(doc)
	if err != nil {
		return nil, err
	}
	ns := namespaceOrDefault(s.Namespace)

	cfg := accorev1.Secret(s.Name, ns).
		WithLabels(s.Labels).
		WithType(secretType(s.Type)).
		WithData(s.Data)

	if _, err := a.client.CoreV1().Secrets(ns).Apply(ctx, cfg, opts); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnavailable, "failed to apply Secret", err,
			map[string]any{"namespace": ns, "name": s.Name})
	}
	return &Result{Kind: artifact.KindSecret, Namespace: ns, Name: s.Name}, nil
}

func (a *Applier) applyConfigMap(ctx context.Context, doc string, opts metav1.ApplyOptions) (*Result, error) {
	cm, err := manifest.DecodeConfigMap(doc)
	if err != nil {
		return nil, err
	}
	ns := namespaceOrDefault(cm.Namespace)

	cfg := accorev1.ConfigMap(cm.Name, ns).
		WithLabels(cm.Labels).
		WithData(cm.Data)

	if _, err := a.client.CoreV1().ConfigMaps(ns).Apply(ctx, cfg, opts); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnavailable, "failed to apply ConfigMap", err,
			map[string]any{"namespace": ns, "name": cm.Name})
	}
	return &Result{Kind: artifact.KindConfigMap, Namespace: ns, Name: cm.Name}, nil
}

func namespaceOrDefault(ns string) string {
	if ns == "" {
		return metav1.NamespaceDefault
	}
	return ns
}

func secretType(t corev1.SecretType) corev1.SecretType {
	if t == "" {
		return corev1.SecretTypeOpaque
	}
	return t
}
