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

package checksum

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

// FileName is the name of the checksum file written next to rendered manifests.
const FileName = "checksums.txt"

// Generate writes FileName into dir with one SHA256 line per file, sorted by
// path relative to dir, in sha256sum format.
func Generate(ctx context.Context, dir string, files []string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
	}

	lines := make([]string, 0, len(files))
	for _, file := range files {
		sum, err := fileSum(file)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = file
		}
		lines = append(lines, fmt.Sprintf("%s  %s", sum, filepath.ToSlash(rel)))
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i][66:] < lines[j][66:]
	})

	path := Path(dir)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to write checksums", err,
			map[string]any{"path": path})
	}

	slog.Debug("checksums generated",
		"file_count", len(lines),
		"path", path,
	)
	return nil
}

// Verify recomputes every checksum listed in dir's FileName and returns the
// relative paths that no longer match, followed by files under dir that the
// checksum file does not list.
func Verify(ctx context.Context, dir string) ([]string, error) {
	path := Path(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfigFileRead, "failed to read checksums", err,
			map[string]any{"path": path})
	}

	var mismatched []string
	listed := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		want, rel, ok := strings.Cut(line, "  ")
		if !ok {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "malformed checksum line",
				map[string]any{"line": line})
		}

		listed[rel] = true
		got, err := fileSum(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil || got != want {
			mismatched = append(mismatched, rel)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to scan checksums", err)
	}

	unlisted, err := unlistedFiles(dir, listed)
	if err != nil {
		return nil, err
	}
	return append(mismatched, unlisted...), nil
}

// unlistedFiles returns regular files under dir, other than FileName, whose
// relative path is not in listed.
func unlistedFiles(dir string, listed map[string]bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel != FileName && !listed[rel] {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to list directory", err,
			map[string]any{"dir": dir})
	}
	return out, nil
}

// Path returns the checksum file path for dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

func fileSum(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", apperrors.WrapWithContext(apperrors.ErrCodeConfigFileRead, "failed to read file for checksum", err,
			map[string]any{"path": file})
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
