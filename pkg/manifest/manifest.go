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

package manifest

import (
	"bytes"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8syaml "sigs.k8s.io/yaml"

	"github.com/ttomsu/halyard/pkg/artifact"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

const indent = 2

// Prettify reformats a YAML document with block style and two-space indentation.
func Prettify(input string) (string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(input), &node); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to parse manifest", err)
	}
	blockStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(&node); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to encode manifest", err)
	}
	if err := enc.Close(); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to encode manifest", err)
	}
	return buf.String(), nil
}

// blockStyle clears flow style so collections are emitted one entry per line.
func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// KindOf returns the artifact kind declared by a rendered manifest.
func KindOf(doc string) (artifact.Kind, error) {
	var meta metav1.TypeMeta
	if err := k8syaml.Unmarshal([]byte(doc), &meta); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to decode manifest type", err)
	}
	return artifact.ParseKind(meta.Kind)
}

// DecodeSecret decodes a rendered Secret manifest.
func DecodeSecret(doc string) (*corev1.Secret, error) {
	var secret corev1.Secret
	if err := decodeTyped(doc, artifact.KindSecret, &secret, &secret.TypeMeta); err != nil {
		return nil, err
	}
	return &secret, nil
}

// DecodeConfigMap decodes a rendered ConfigMap manifest.
func DecodeConfigMap(doc string) (*corev1.ConfigMap, error) {
	var cm corev1.ConfigMap
	if err := decodeTyped(doc, artifact.KindConfigMap, &cm, &cm.TypeMeta); err != nil {
		return nil, err
	}
	return &cm, nil
}

func decodeTyped(doc string, want artifact.Kind, obj any, meta *metav1.TypeMeta) error {
	if err := k8syaml.UnmarshalStrict([]byte(doc), obj); err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"failed to decode "+want.String()+" manifest", err,
			map[string]any{"kind": want.String()})
	}
	if meta.Kind != want.String() || meta.APIVersion != "v1" {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"manifest is not a v1 "+want.String(),
			map[string]any{"kind": meta.Kind, "apiVersion": meta.APIVersion})
	}
	return nil
}
