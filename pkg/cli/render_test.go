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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/ttomsu/halyard/pkg/artifact"
	"github.com/ttomsu/halyard/pkg/checksum"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
	"github.com/ttomsu/halyard/pkg/k8s/client"
	"github.com/ttomsu/halyard/pkg/kubectl"
	"github.com/ttomsu/halyard/pkg/manifest"
	"github.com/ttomsu/halyard/pkg/secrets"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.Writer = &buf
	cmd.ErrWriter = &buf
	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return buf.String(), err
}

// useFakeCluster routes every kube client the CLI builds to a fake clientset.
func useFakeCluster(t *testing.T, objects ...runtime.Object) *fake.Clientset {
	t.Helper()
	clientset := fake.NewClientset(objects...)
	prev := kubeClientFor
	kubeClientFor = func(context.Context, kubectl.Account, secrets.Resolver) (client.Interface, error) {
		return clientset, nil
	}
	t.Cleanup(func() { kubeClientFor = prev })
	return clientset
}

func writeTestFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseLiteralSources(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		wantName []string
		wantText []string
		wantErr  bool
	}{
		{name: "simple", values: []string{"greeting=hello"}, wantName: []string{"greeting"}, wantText: []string{"hello"}},
		{name: "value with equals", values: []string{"opts=a=b"}, wantName: []string{"opts"}, wantText: []string{"a=b"}},
		{name: "empty value", values: []string{"empty="}, wantName: []string{"empty"}, wantText: []string{""}},
		{name: "missing equals", values: []string{"greeting"}, wantErr: true},
		{name: "missing name", values: []string{"=hello"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLiteralSources(tt.values)
			if tt.wantErr {
				assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.wantName))
			for i := range got {
				assert.Equal(t, tt.wantName[i], got[i].Name())
				assert.Equal(t, tt.wantText[i], got[i].Text())
				assert.Equal(t, artifact.OriginInline, got[i].Origin())
			}
		})
	}
}

func TestParseFileSources(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantName string
		wantPath string
		wantErr  bool
	}{
		{name: "path only", value: "/etc/spinnaker/clouddriver.yml", wantName: "clouddriver.yml", wantPath: "/etc/spinnaker/clouddriver.yml"},
		{name: "named", value: "app.yml=/tmp/x", wantName: "app.yml", wantPath: "/tmp/x"},
		{name: "encrypted path", value: "kubeconfig=encrypted:s3!f:kc", wantName: "kubeconfig", wantPath: "encrypted:s3!f:kc"},
		{name: "empty", value: "", wantErr: true},
		{name: "empty name", value: "=/tmp/x", wantErr: true},
		{name: "empty path", value: "app.yml=", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFileSources([]string{tt.value})
			if tt.wantErr {
				assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantName, got[0].Name())
			assert.Equal(t, tt.wantPath, got[0].Path())
			assert.True(t, got[0].IsFile())
		})
	}
}

func TestRender_Stdout(t *testing.T) {
	file := filepath.Join(t.TempDir(), "profile.sh")
	require.NoError(t, os.WriteFile(file, []byte("{% if x %}shell{% endif %}"), 0o600))

	out, err := runCLI(t, "render",
		"--kind", "configmap",
		"--name", "spin-clouddriver-files",
		"--namespace", "spinnaker",
		"--cluster", "spin-clouddriver",
		"--from-literal", "greeting=hello",
		"--from-file", file,
	)
	require.NoError(t, err)

	cm, err := manifest.DecodeConfigMap(out)
	require.NoError(t, err, out)
	assert.True(t, strings.HasPrefix(cm.Name, "spin-clouddriver-files-"))
	assert.Equal(t, "spinnaker", cm.Namespace)
	assert.Equal(t, map[string]string{"greeting": "hello", "profile.sh": " if x shell endif "}, cm.Data)
}

func TestRender_DirAndVerify(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "manifests")

	_, err := runCLI(t, "render",
		"--kind", "Secret",
		"--name", "spin-gate-files",
		"--namespace", "spinnaker",
		"--from-literal", "password=s3cr3t",
		"--output", dir,
	)
	require.NoError(t, err)

	docs, err := manifest.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, artifact.KindSecret, docs[0].Kind)

	_, err = os.Stat(checksum.Path(dir))
	require.NoError(t, err)

	out, err := runCLI(t, "verify", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, docs[0].Name)
	assert.Contains(t, out, "OK")

	path := filepath.Join(dir, docs[0].Name+manifest.Extension)
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o600))
	_, err = runCLI(t, "verify", "--dir", dir)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest), "got %v", err)
}

func TestRender_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yml")

	tests := []struct {
		name     string
		args     []string
		wantCode apperrors.ErrorCode
		contains string
	}{
		{
			name:     "unknown kind",
			args:     []string{"render", "--kind", "secrt", "--name", "x"},
			wantCode: apperrors.ErrCodeInvalidRequest,
			contains: `did you mean "Secret"`,
		},
		{
			name:     "missing file",
			args:     []string{"render", "--kind", "ConfigMap", "--name", "x", "--from-file", missing},
			wantCode: apperrors.ErrCodeConfigFileRead,
		},
		{
			name:     "bad literal",
			args:     []string{"render", "--kind", "ConfigMap", "--name", "x", "--from-literal", "novalue"},
			wantCode: apperrors.ErrCodeInvalidRequest,
		},
		{
			name:     "unregistered secret engine",
			args:     []string{"render", "--kind", "Secret", "--name", "x", "--from-literal", "pw=encrypted:s3!f:pw"},
			wantCode: apperrors.ErrCodeNotFound,
		},
		{
			name:     "invalid oci target",
			args:     []string{"render", "--kind", "Secret", "--name", "x", "--output", "oci://ghcr.io/Upper/Case"},
			wantCode: apperrors.ErrCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestRender_RequiredFlags(t *testing.T) {
	_, err := runCLI(t, "render", "--kind", "Secret")
	assert.Error(t, err)
}

func TestRender_StdoutControlCharacters(t *testing.T) {
	out, err := runCLI(t, "render",
		"--kind", "ConfigMap",
		"--name", "spin-echo-files",
		"--from-literal", "nel=a\u0085b",
		"--from-literal", "del=a\x7fb",
		"--from-literal", "quote=say \"hi\"",
	)
	require.NoError(t, err)

	cm, err := manifest.DecodeConfigMap(out)
	require.NoError(t, err, out)
	assert.Equal(t, map[string]string{"nel": "a\u0085b", "del": "a\x7fb", "quote": `say "hi"`}, cm.Data)
}

func TestRender_Batch(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "clouddriver.yml"), "server:\n  port: 7002\n")
	writeTestFile(t, filepath.Join(dir, "profiles", "clouddriver.sh"), "{% x %}echo hi")
	batch := writeTestFile(t, filepath.Join(dir, "artifacts.yaml"), `artifacts:
  - kind: ConfigMap
    name: spin-clouddriver-files
    cluster: spin-clouddriver
    files: [clouddriver.yml, profile.sh=profiles/clouddriver.sh]
  - kind: secret
    name: spin-gate-files
    namespace: gate
    literals: [password=s3cr3t]
`)
	out := filepath.Join(t.TempDir(), "manifests")

	_, err := runCLI(t, "render", "--batch", batch, "--namespace", "spinnaker", "--output", out)
	require.NoError(t, err)

	docs, err := manifest.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	cm, err := manifest.DecodeConfigMap(docs[0].Content)
	require.NoError(t, err)
	assert.Equal(t, "spinnaker", cm.Namespace)
	assert.Equal(t, "spin-clouddriver", cm.Labels["cluster"])
	assert.Equal(t, map[string]string{
		"clouddriver.yml": "server:\n  port: 7002\n",
		"profile.sh":      " x echo hi",
	}, cm.Data)

	secret, err := manifest.DecodeSecret(docs[1].Content)
	require.NoError(t, err)
	assert.Equal(t, "gate", secret.Namespace)
	assert.Equal(t, []byte("s3cr3t"), secret.Data["password"])

	_, err = runCLI(t, "verify", "--dir", out)
	require.NoError(t, err)

	writeTestFile(t, filepath.Join(out, "extra.yaml"), docs[1].Content)
	_, err = runCLI(t, "verify", "--dir", out)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest), "got %v", err)
	assert.Contains(t, err.Error(), "extra.yaml")
}

func TestRender_BatchErrors(t *testing.T) {
	dir := t.TempDir()
	valid := writeTestFile(t, filepath.Join(dir, "valid.yaml"), "artifacts:\n  - kind: Secret\n    name: x\n")
	unknownField := writeTestFile(t, filepath.Join(dir, "unknown.yaml"), "artifacts:\n  - kind: Secret\n    name: x\n    bogus: 1\n")
	empty := writeTestFile(t, filepath.Join(dir, "empty.yaml"), "artifacts: []\n")
	badKind := writeTestFile(t, filepath.Join(dir, "kind.yaml"), "artifacts:\n  - kind: Deployment\n    name: x\n")
	noName := writeTestFile(t, filepath.Join(dir, "noname.yaml"), "artifacts:\n  - kind: Secret\n")

	tests := []struct {
		name     string
		args     []string
		wantCode apperrors.ErrorCode
	}{
		{name: "combined with kind", args: []string{"--batch", valid, "--kind", "Secret"}, wantCode: apperrors.ErrCodeInvalidRequest},
		{name: "combined with literal", args: []string{"--batch", valid, "--from-literal", "a=b"}, wantCode: apperrors.ErrCodeInvalidRequest},
		{name: "missing file", args: []string{"--batch", filepath.Join(dir, "absent.yaml")}, wantCode: apperrors.ErrCodeConfigFileRead},
		{name: "unknown field", args: []string{"--batch", unknownField}, wantCode: apperrors.ErrCodeInvalidRequest},
		{name: "no artifacts", args: []string{"--batch", empty}, wantCode: apperrors.ErrCodeInvalidRequest},
		{name: "bad kind", args: []string{"--batch", badKind}, wantCode: apperrors.ErrCodeInvalidRequest},
		{name: "missing name", args: []string{"--batch", noName}, wantCode: apperrors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, append([]string{"render"}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestRender_KubernetesSecretAndApply(t *testing.T) {
	clientset := useFakeCluster(t, &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "spin-secrets", Namespace: "spinnaker"},
		Data:       map[string][]byte{"gate": []byte("s3cr3t")},
	})

	out, err := runCLI(t, "render",
		"--kind", "Secret",
		"--name", "spin-gate-files",
		"--namespace", "spinnaker",
		"--from-literal", "password=encrypted:k8s!n:spin-secrets!k:gate",
		"--apply",
	)
	require.NoError(t, err)

	secret, err := manifest.DecodeSecret(out)
	require.NoError(t, err, out)
	assert.Equal(t, []byte("s3cr3t"), secret.Data["password"])

	applied, err := clientset.CoreV1().Secrets("spinnaker").Get(context.Background(), secret.Name, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cr3t"), applied.Data["password"])
}

func TestRender_KubernetesSecretMissing(t *testing.T) {
	useFakeCluster(t)

	_, err := runCLI(t, "render",
		"--kind", "Secret",
		"--name", "spin-gate-files",
		"--namespace", "spinnaker",
		"--from-literal", "password=encrypted:k8s!n:spin-secrets!k:gate",
	)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound), "got %v", err)
}
