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

package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{
			name: "message only",
			err:  New(ErrCodeInvalidRequest, "artifact name is required"),
			want: "[INVALID_REQUEST] artifact name is required",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeConfigFileRead, "failed to read required config file", fs.ErrNotExist),
			want: "[CONFIG_FILE_READ] failed to read required config file: file does not exist",
		},
		{
			name: "context is not rendered",
			err:  NewWithContext(ErrCodeEncoding, "invalid utf-8", map[string]any{"offset": 3}),
			want: "[ENCODING] invalid utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapWithContext(t *testing.T) {
	err := WrapWithContext(ErrCodeConfigFileRead, "failed to read required config file", fs.ErrPermission, map[string]any{
		"artifact": "spin-clouddriver-files",
		"source":   "clouddriver.yml",
	})

	assert.Equal(t, ErrCodeConfigFileRead, err.Code)
	assert.Equal(t, "clouddriver.yml", err.Context["source"])
	assert.ErrorIs(t, err, fs.ErrPermission)

	var se *StructuredError
	require.ErrorAs(t, fmt.Errorf("build: %w", err), &se)
	assert.Equal(t, "spin-clouddriver-files", se.Context["artifact"])
}

func TestHasCode(t *testing.T) {
	inner := Wrap(ErrCodeEncoding, "invalid utf-8", stderrors.New("byte 0xff"))
	outer := Wrap(ErrCodeInternal, "build failed", inner)

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"nil", nil, ErrCodeEncoding, false},
		{"direct", inner, ErrCodeEncoding, true},
		{"nested", outer, ErrCodeEncoding, true},
		{"outer", outer, ErrCodeInternal, true},
		{"through fmt", fmt.Errorf("ctx: %w", inner), ErrCodeEncoding, true},
		{"absent", outer, ErrCodeConfigFileRead, false},
		{"plain error", stderrors.New("boom"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasCode(tt.err, tt.code))
		})
	}
}

func TestCodeOf(t *testing.T) {
	inner := New(ErrCodeNotFound, "template not found")

	assert.Equal(t, ErrCodeNotFound, CodeOf(inner))
	assert.Equal(t, ErrCodeInternal, CodeOf(Wrap(ErrCodeInternal, "render", inner)))
	assert.Equal(t, ErrCodeNotFound, CodeOf(fmt.Errorf("ctx: %w", inner)))
	assert.Equal(t, ErrorCode(""), CodeOf(stderrors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestAttrs(t *testing.T) {
	assert.Nil(t, Attrs(nil))

	inner := WrapWithContext(ErrCodeConfigFileRead, "read failed", fs.ErrNotExist, map[string]any{
		"path":     "/etc/halyard/clouddriver.yml",
		"artifact": "inner",
	})
	outer := WrapWithContext(ErrCodeInternal, "build failed", inner, map[string]any{
		"artifact": "spin-clouddriver-files",
	})

	got := Attrs(outer)
	require.Len(t, got, 4)

	want := []slog.Attr{
		slog.String("code", "INTERNAL"),
		slog.Any("artifact", "spin-clouddriver-files"),
		slog.Any("path", "/etc/halyard/clouddriver.yml"),
		slog.String("error", outer.Error()),
	}
	for i, w := range want {
		a, ok := got[i].(slog.Attr)
		require.True(t, ok)
		assert.True(t, w.Equal(a), "attr %d: want %v, got %v", i, w, a)
	}
}

func TestAttrs_PlainError(t *testing.T) {
	got := Attrs(stderrors.New("boom"))
	require.Len(t, got, 1)
	a, ok := got[0].(slog.Attr)
	require.True(t, ok)
	assert.True(t, slog.String("error", "boom").Equal(a))
}
