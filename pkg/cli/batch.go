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

package cli

import (
	"os"
	"path/filepath"

	k8syaml "sigs.k8s.io/yaml"

	"github.com/ttomsu/halyard/pkg/artifact"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
	"github.com/ttomsu/halyard/pkg/secrets"
)

// batchFile lists artifacts rendered together by render --batch.
type batchFile struct {
	Artifacts []batchArtifact `json:"artifacts"`
}

type batchArtifact struct {
	Kind      string   `json:"kind"`
	Name      string   `json:"name"`
	Namespace string   `json:"namespace,omitempty"`
	Cluster   string   `json:"cluster,omitempty"`
	Literals  []string `json:"literals,omitempty"`
	Files     []string `json:"files,omitempty"`
}

// loadBatch reads a batch file into build requests. Entries without a
// namespace or cluster take the given defaults; relative file paths are
// resolved against the batch file's directory.
func loadBatch(path, namespace, cluster string) ([]artifact.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfigFileRead, "failed to read batch file", err,
			map[string]any{"path": path})
	}

	var batch batchFile
	if err := k8syaml.UnmarshalStrict(data, &batch); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid batch file", err,
			map[string]any{"path": path})
	}
	if len(batch.Artifacts) == 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "batch file lists no artifacts",
			map[string]any{"path": path})
	}

	base := filepath.Dir(path)
	reqs := make([]artifact.Request, 0, len(batch.Artifacts))
	for i, a := range batch.Artifacts {
		req, err := a.request(base, namespace, cluster)
		if err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid batch artifact", err,
				map[string]any{"path": path, "index": i, "artifact": a.Name})
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func (a batchArtifact) request(base, namespace, cluster string) (artifact.Request, error) {
	kind, err := artifact.ParseKind(a.Kind)
	if err != nil {
		return artifact.Request{}, err
	}
	literals, err := parseLiteralSources(a.Literals)
	if err != nil {
		return artifact.Request{}, err
	}
	files, err := parseFileSources(a.Files)
	if err != nil {
		return artifact.Request{}, err
	}
	for i, f := range files {
		if p := f.Path(); !filepath.IsAbs(p) && !secrets.IsEncrypted(p) {
			files[i] = artifact.NamedFile(f.Name(), filepath.Join(base, p))
		}
	}

	if a.Namespace != "" {
		namespace = a.Namespace
	}
	if a.Cluster != "" {
		cluster = a.Cluster
	}
	req := artifact.Request{
		Namespace:   namespace,
		ClusterName: cluster,
		Name:        a.Name,
		Kind:        kind,
		Sources:     append(literals, files...),
	}
	return req, req.Validate()
}
