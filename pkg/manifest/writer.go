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
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ttomsu/halyard/pkg/artifact"
	"github.com/ttomsu/halyard/pkg/checksum"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

// Extension is the file extension of written manifests.
const Extension = ".yaml"

// Document is one rendered manifest.
type Document struct {
	Name    string
	Kind    artifact.Kind
	Content string
}

// Result describes a directory written by Writer.WriteDir.
type Result struct {
	Dir       string        `json:"dir" yaml:"dir"`
	Files     []string      `json:"files" yaml:"files"`
	TotalSize int64         `json:"totalSize" yaml:"totalSize"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Writer writes rendered manifests to directories or streams.
type Writer struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// NewWriter creates a Writer with private file permissions.
func NewWriter() *Writer {
	return &Writer{dirPerm: 0o755, filePerm: 0o600}
}

// WriteDir writes each document to <dir>/<name>.yaml followed by a
// checksums.txt covering all of them. Existing files with the same names are
// replaced atomically.
func (w *Writer) WriteDir(ctx context.Context, dir string, docs []Document) (*Result, error) {
	start := time.Now()

	if err := os.MkdirAll(dir, w.dirPerm); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to create output directory", err,
			map[string]any{"dir": dir})
	}

	res := &Result{Dir: dir, Files: make([]string, 0, len(docs))}
	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
		}
		if err := validateName(doc.Name); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, doc.Name+Extension)
		if err := writeFileAtomic(path, []byte(doc.Content), w.filePerm); err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to write manifest", err,
				map[string]any{"path": path, "artifact": doc.Name})
		}

		paths = append(paths, path)
		res.Files = append(res.Files, filepath.Base(path))
		res.TotalSize += int64(len(doc.Content))
	}

	if err := checksum.Generate(ctx, dir, paths); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, checksum.FileName)
	res.Duration = time.Since(start)

	slog.Info("manifests written",
		"dir", dir,
		"files", len(res.Files),
		"size_bytes", res.TotalSize,
	)
	return res, nil
}

// WriteStream writes documents to out as one multi-document YAML stream.
func (w *Writer) WriteStream(out io.Writer, docs []Document) error {
	for i, doc := range docs {
		var b strings.Builder
		if i > 0 {
			b.WriteString("---\n")
		}
		b.WriteString(doc.Content)
		if !strings.HasSuffix(doc.Content, "\n") {
			b.WriteString("\n")
		}
		if _, err := io.WriteString(out, b.String()); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to write manifest stream", err)
		}
	}
	return nil
}

// validateName rejects names that would escape the output directory.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid manifest name",
			map[string]any{"artifact": name})
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
