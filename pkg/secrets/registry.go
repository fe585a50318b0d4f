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
	"log/slog"
	"os"
	"sync"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

// Engine decrypts references addressed to one secret backend.
type Engine interface {
	Decrypt(ctx context.Context, ref *Reference) ([]byte, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, ref *Reference) ([]byte, error)

// Decrypt calls f.
func (f EngineFunc) Decrypt(ctx context.Context, ref *Reference) ([]byte, error) {
	return f(ctx, ref)
}

// Option configures a Registry.
type Option func(*Registry)

// WithEngine registers an engine under name.
func WithEngine(name string, e Engine) Option {
	return func(r *Registry) {
		r.engines[name] = e
	}
}

// WithTempDir sets the directory decrypted files are written to.
func WithTempDir(dir string) Option {
	return func(r *Registry) {
		r.tempDir = dir
	}
}

// Registry is a Resolver that dispatches references to engines by name.
// Files created by DecryptAsFile live until Close.
type Registry struct {
	engines map[string]Engine
	tempDir string

	mu    sync.Mutex
	files []string
}

var _ Resolver = (*Registry)(nil)

// NewRegistry creates a Registry with the given options.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{engines: make(map[string]Engine)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Decrypt returns the plaintext for ref.
func (r *Registry) Decrypt(ctx context.Context, ref string) (string, error) {
	b, err := r.decrypt(ctx, ref)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecryptAsFile writes the plaintext for ref to a file readable only by the
// current user and returns its path.
func (r *Registry) DecryptAsFile(ctx context.Context, ref string) (string, error) {
	b, err := r.decrypt(ctx, ref)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(r.tempDir, "halctl-secret-*")
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create secret file", err)
	}
	name := f.Name()

	r.mu.Lock()
	r.files = append(r.files, name)
	r.mu.Unlock()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to write secret file", err)
	}
	if err := f.Close(); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to close secret file", err)
	}
	return name, nil
}

// Close removes every file written by DecryptAsFile.
func (r *Registry) Close() error {
	r.mu.Lock()
	files := r.files
	r.files = nil
	r.mu.Unlock()

	var firstErr error
	for _, name := range files {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = apperrors.Wrap(apperrors.ErrCodeInternal, "failed to remove secret file", err)
		}
	}
	return firstErr
}

func (r *Registry) decrypt(ctx context.Context, raw string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
	}

	ref, err := ParseReference(raw)
	if err != nil {
		return nil, err
	}

	engine, ok := r.engines[ref.Engine]
	if !ok {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			"no secret engine registered: "+ref.Engine,
			map[string]any{"engine": ref.Engine})
	}

	b, err := engine.Decrypt(ctx, ref)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnavailable,
			"secret engine failed", err,
			map[string]any{"engine": ref.Engine})
	}

	slog.Debug("secret decrypted", "engine", ref.Engine, "size_bytes", len(b))
	return b, nil
}
