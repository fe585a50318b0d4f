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
	"strings"

	"github.com/ttomsu/halyard/pkg/artifact"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

const (
	// EncryptedPrefix marks a value as a reference into a secret engine.
	EncryptedPrefix = "encrypted:"

	paramSeparator = "!"
	keySeparator   = ":"
)

// Reference is a parsed encrypted secret reference of the form
// encrypted:<engine>!<key>:<value>[!<key>:<value>...].
type Reference struct {
	Engine string
	Params map[string]string
	raw    string
}

// String returns the reference as originally written.
func (r *Reference) String() string {
	return r.raw
}

// IsEncrypted reports whether value is an encrypted secret reference.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

// ParseReference parses an encrypted secret reference.
func ParseReference(value string) (*Reference, error) {
	if !IsEncrypted(value) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "not an encrypted secret reference")
	}

	parts := strings.Split(strings.TrimPrefix(value, EncryptedPrefix), paramSeparator)
	engine := parts[0]
	if engine == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "secret engine is required")
	}

	ref := &Reference{
		Engine: engine,
		Params: make(map[string]string, len(parts)-1),
		raw:    value,
	}
	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(p, keySeparator)
		if !ok || k == "" {
			// parameter values are never echoed
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"malformed secret parameter, expected key:value",
				map[string]any{"engine": engine})
		}
		ref.Params[k] = v
	}
	if len(ref.Params) == 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"secret reference has no parameters",
			map[string]any{"engine": engine})
	}
	return ref, nil
}

// Resolver decrypts encrypted secret references.
type Resolver interface {
	// Decrypt returns the plaintext secret.
	Decrypt(ctx context.Context, ref string) (string, error)
	// DecryptAsFile writes the plaintext secret to a private file and returns its path.
	DecryptAsFile(ctx context.Context, ref string) (string, error)
}

// ResolveSources returns sources with encrypted references replaced by their
// decrypted content. Inline values are decrypted in place; encrypted file paths
// become paths to decrypted files under the same source name.
// Sources without references are returned unchanged.
func ResolveSources(ctx context.Context, r Resolver, sources []artifact.Source) ([]artifact.Source, error) {
	out := make([]artifact.Source, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
		}

		ref := src.Text()
		if src.IsFile() {
			ref = src.Path()
		}
		if !IsEncrypted(ref) {
			out = append(out, src)
			continue
		}
		if r == nil {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"encrypted secret reference requires a secret resolver",
				map[string]any{"source": src.Name()})
		}

		if src.IsFile() {
			path, err := r.DecryptAsFile(ctx, ref)
			if err != nil {
				return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
					"failed to decrypt file source", err,
					map[string]any{"source": src.Name()})
			}
			out = append(out, artifact.NamedFile(src.Name(), path))
			continue
		}

		text, err := r.Decrypt(ctx, ref)
		if err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
				"failed to decrypt inline source", err,
				map[string]any{"source": src.Name()})
		}
		out = append(out, artifact.Inline(src.Name(), text))
	}
	return out, nil
}
