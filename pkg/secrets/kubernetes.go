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

package secrets

import (
	"context"
	"sync"

	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

const (
	// KubernetesEngineName is the engine name of references into Kubernetes
	// Secrets: encrypted:k8s!n:<secret>!k:<key>[!ns:<namespace>].
	KubernetesEngineName = "k8s"

	paramSecretName = "n"
	paramSecretKey  = "k"
	paramNamespace  = "ns"
)

// ClientFunc returns the client used to read Secrets.
type ClientFunc func(ctx context.Context) (kubernetes.Interface, error)

// KubernetesEngine reads one data key of an existing Kubernetes Secret.
// The client is created on first use.
type KubernetesEngine struct {
	namespace string
	newClient ClientFunc

	once   sync.Once
	client kubernetes.Interface
	err    error
}

var _ Engine = (*KubernetesEngine)(nil)

// NewKubernetesEngine creates an engine reading from namespace unless a
// reference names its own.
func NewKubernetesEngine(namespace string, fn ClientFunc) *KubernetesEngine {
	if namespace == "" {
		namespace = metav1.NamespaceDefault
	}
	return &KubernetesEngine{namespace: namespace, newClient: fn}
}

// Decrypt returns the value stored under the reference's key.
func (e *KubernetesEngine) Decrypt(ctx context.Context, ref *Reference) ([]byte, error) {
	name, key := ref.Params[paramSecretName], ref.Params[paramSecretKey]
	if name == "" || key == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			"k8s secret reference requires n:<secret> and k:<key>")
	}
	namespace := ref.Params[paramNamespace]
	if namespace == "" {
		namespace = e.namespace
	}
	fields := map[string]any{"namespace": namespace, "secret": name, "key": key}

	c, err := e.kubeClient(ctx)
	if err != nil {
		return nil, err
	}

	secret, err := c.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if k8serrors.IsNotFound(err) {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "secret not found", err, fields)
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnavailable, "failed to read secret", err, fields)
	}

	if v, ok := secret.Data[key]; ok {
		return v, nil
	}
	if v, ok := secret.StringData[key]; ok {
		return []byte(v), nil
	}
	return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound, "secret has no such key", fields)
}

func (e *KubernetesEngine) kubeClient(ctx context.Context) (kubernetes.Interface, error) {
	e.once.Do(func() {
		if e.newClient == nil {
			e.err = apperrors.New(apperrors.ErrCodeInvalidRequest, "no kubernetes client configured")
			return
		}
		e.client, e.err = e.newClient(ctx)
	})
	return e.client, e.err
}
