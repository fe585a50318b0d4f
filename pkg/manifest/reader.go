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
	"os"
	"path/filepath"
	"sort"

	"github.com/ttomsu/halyard/pkg/artifact"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

// ReadDir loads and validates every manifest written to dir, sorted by file name.
func ReadDir(dir string) ([]Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+Extension))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to list manifests", err)
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfigFileRead, "failed to read manifest", err,
				map[string]any{"path": path})
		}
		content := string(data)

		doc, err := decodeDocument(content)
		if err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid manifest", err,
				map[string]any{"path": path})
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func decodeDocument(content string) (Document, error) {
	kind, err := KindOf(content)
	if err != nil {
		return Document{}, err
	}

	var name string
	switch kind {
	case artifact.KindSecret:
		s, err := DecodeSecret(content)
		if err != nil {
			return Document{}, err
		}
		name = s.Name
	case artifact.KindConfigMap:
		cm, err := DecodeConfigMap(content)
		if err != nil {
			return Document{}, err
		}
		name = cm.Name
	}
	return Document{Name: name, Kind: kind, Content: content}, nil
}
