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
	"os"
	"path/filepath"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

// Origin describes where a content source's bytes come from.
type Origin int

const (
	// OriginInline sources carry their text directly.
	OriginInline Origin = iota
	// OriginFile sources are read from the filesystem.
	OriginFile
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginInline:
		return "inline"
	case OriginFile:
		return "file"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// Source is one named unit of content contributing to an artifact.
// A Source is immutable; exactly one of its text or path is meaningful,
// as selected by its origin.
type Source struct {
	name   string
	origin Origin
	text   string
	path   string
}

// Inline creates a source whose content is the given text.
func Inline(name, text string) Source {
	return Source{name: name, origin: OriginInline, text: text}
}

// File creates a source read from path and named after the file's base name.
func File(path string) Source {
	return NamedFile(filepath.Base(path), path)
}

// NamedFile creates a source read from path under an explicit name.
func NamedFile(name, path string) Source {
	return Source{name: name, origin: OriginFile, path: path}
}

// Name returns the key the source's content is stored under.
func (s Source) Name() string { return s.name }

// Origin returns where the source's content comes from.
func (s Source) Origin() Origin { return s.origin }

// Text returns the inline text; empty for file sources.
func (s Source) Text() string { return s.text }

// Path returns the file path; empty for inline sources.
func (s Source) Path() string { return s.path }

// IsFile reports whether the source is read from the filesystem.
func (s Source) IsFile() bool { return s.origin == OriginFile }

// Resolve returns the raw payload of the source.
// File read failures are CONFIG_FILE_READ errors carrying the absolute path.
func (s Source) Resolve() ([]byte, error) {
	return s.resolve(os.ReadFile)
}

func (s Source) resolve(readFile func(string) ([]byte, error)) ([]byte, error) {
	if s.origin == OriginInline {
		return []byte(s.text), nil
	}

	data, err := readFile(s.path)
	if err != nil {
		abs, absErr := filepath.Abs(s.path)
		if absErr != nil {
			abs = s.path
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfigFileRead,
			"failed to read required config file: "+abs, err,
			map[string]any{
				"source": s.name,
				"path":   abs,
			})
	}
	return data, nil
}
