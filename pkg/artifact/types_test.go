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
	"strings"
	"testing"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        Kind
		wantErr     bool
		wantSuggest string
	}{
		{name: "secret exact", input: "Secret", want: KindSecret},
		{name: "secret lower", input: "secret", want: KindSecret},
		{name: "configmap exact", input: "ConfigMap", want: KindConfigMap},
		{name: "configmap upper", input: "CONFIGMAP", want: KindConfigMap},
		{name: "surrounding space", input: "  configmap ", want: KindConfigMap},
		{name: "typo suggests configmap", input: "confgmap", wantErr: true, wantSuggest: `did you mean "ConfigMap"`},
		{name: "typo suggests secret", input: "secrt", wantErr: true, wantSuggest: `did you mean "Secret"`},
		{name: "unrelated", input: "deployment", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest) {
					t.Errorf("ParseKind(%q) error code, want %s: %v", tt.input, apperrors.ErrCodeInvalidRequest, err)
				}
				if tt.wantSuggest != "" && !strings.Contains(err.Error(), tt.wantSuggest) {
					t.Errorf("ParseKind(%q) error = %q, want suggestion %q", tt.input, err, tt.wantSuggest)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKind_TemplateRef(t *testing.T) {
	if got := KindSecret.TemplateRef(); got != SecretTemplateRef {
		t.Errorf("KindSecret.TemplateRef() = %q, want %q", got, SecretTemplateRef)
	}
	if got := KindConfigMap.TemplateRef(); got != ConfigMapTemplateRef {
		t.Errorf("KindConfigMap.TemplateRef() = %q, want %q", got, ConfigMapTemplateRef)
	}
	if got := Kind("Deployment").TemplateRef(); got != "" {
		t.Errorf("unknown kind TemplateRef() = %q, want empty", got)
	}
}

func TestSpec_ExtendBindings(t *testing.T) {
	spec := &Spec{
		Name: "spin-files-1",
		Bindings: Bindings{
			BindingName: "spin-files-1",
			BindingFiles: map[string]string{
				"a": "b",
			},
		},
	}

	if err := spec.ExtendBindings(map[string]any{"labels": map[string]string{"team": "core"}}); err != nil {
		t.Fatalf("ExtendBindings() error = %v", err)
	}
	if _, ok := spec.Bindings["labels"]; !ok {
		t.Error("ExtendBindings() did not add labels binding")
	}

	err := spec.ExtendBindings(map[string]any{BindingName: "other"})
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest) {
		t.Errorf("ExtendBindings(reserved) error = %v, want %s", err, apperrors.ErrCodeInvalidRequest)
	}
	if spec.Bindings[BindingName] != "spin-files-1" {
		t.Errorf("reserved binding was replaced: %v", spec.Bindings[BindingName])
	}

	if got := spec.Files()["a"]; got != "b" {
		t.Errorf("Files()[a] = %q, want %q", got, "b")
	}
}

func TestContentMap(t *testing.T) {
	m := NewContentMap()

	if m.Set("b", "1") {
		t.Error("Set(b) reported replace on first insert")
	}
	m.Set("a", "2")
	if !m.Set("b", "3") {
		t.Error("Set(b) did not report replace")
	}

	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("Keys() = %v, want [b a]", keys)
	}
	if v, _ := m.Get("b"); v != "3" {
		t.Errorf("Get(b) = %q, want last written value 3", v)
	}

	copied := m.Map()
	copied["b"] = "mutated"
	if v, _ := m.Get("b"); v != "3" {
		t.Error("Map() returned a view instead of a copy")
	}
}

func TestSource(t *testing.T) {
	inline := Inline("greeting", "hello")
	if inline.Origin() != OriginInline || inline.IsFile() {
		t.Errorf("Inline() origin = %v", inline.Origin())
	}

	file := File("/etc/halyard/profiles/clouddriver-local.yml")
	if file.Name() != "clouddriver-local.yml" {
		t.Errorf("File() name = %q, want base name", file.Name())
	}
	if !file.IsFile() || file.Path() != "/etc/halyard/profiles/clouddriver-local.yml" {
		t.Errorf("File() = %+v", file)
	}

	named := NamedFile("clouddriver.yml", "/tmp/staging/abc123")
	if named.Name() != "clouddriver.yml" || named.Origin() != OriginFile {
		t.Errorf("NamedFile() = %+v", named)
	}

	if OriginFile.String() != "file" || OriginInline.String() != "inline" {
		t.Errorf("Origin.String() = %q, %q", OriginFile, OriginInline)
	}
}
