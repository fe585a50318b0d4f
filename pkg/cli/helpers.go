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
	"context"
	"strings"

	"github.com/urfave/cli/v3"
	"k8s.io/client-go/kubernetes"

	"github.com/ttomsu/halyard/pkg/artifact"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
	"github.com/ttomsu/halyard/pkg/k8s/client"
	"github.com/ttomsu/halyard/pkg/kubectl"
	"github.com/ttomsu/halyard/pkg/secrets"
)

var (
	kubeconfigFlag = &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig file or encrypted secret reference (defaults to KUBECONFIG, ~/.kube/config, in-cluster)",
	}
	contextFlag = &cli.StringFlag{
		Name:  "context",
		Usage: "Kubeconfig context to use (defaults to the current context)",
	}
	inClusterFlag = &cli.BoolFlag{
		Name:  "in-cluster",
		Usage: "Use the pod's service account instead of a kubeconfig",
	}
)

// kubeClientFor builds the client for an account; tests replace it.
var kubeClientFor = func(ctx context.Context, account kubectl.Account, r secrets.Resolver) (client.Interface, error) {
	c, _, err := client.ForAccount(ctx, account, r)
	return c, err
}

// accountFromFlags reads the kubeconfig, context and in-cluster flags.
func accountFromFlags(cmd *cli.Command) kubectl.Account {
	return kubectl.Account{
		Context:        cmd.String("context"),
		KubeconfigFile: cmd.String("kubeconfig"),
		ServiceAccount: cmd.Bool("in-cluster"),
	}
}

// newSecretResolver returns a registry with the k8s engine reading Secrets
// through account, defaulting to namespace. An encrypted kubeconfig cannot
// decrypt itself, so the engine falls back to kubeconfig discovery for it.
func newSecretResolver(account kubectl.Account, namespace string) *secrets.Registry {
	if secrets.IsEncrypted(account.KubeconfigFile) {
		account.KubeconfigFile = ""
	}
	engine := secrets.NewKubernetesEngine(namespace, func(ctx context.Context) (kubernetes.Interface, error) {
		return kubeClientFor(ctx, account, nil)
	})
	return secrets.NewRegistry(secrets.WithEngine(secrets.KubernetesEngineName, engine))
}

// parseLiteralSources turns name=value pairs into inline sources.
func parseLiteralSources(values []string) ([]artifact.Source, error) {
	sources := make([]artifact.Source, 0, len(values))
	for _, v := range values {
		k, text, ok := strings.Cut(v, "=")
		if !ok || k == "" {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"invalid --from-literal value, expected name=value",
				map[string]any{"value": k})
		}
		sources = append(sources, artifact.Inline(k, text))
	}
	return sources, nil
}

// parseFileSources turns [name=]path values into file sources. Without a name
// the file's base name is used.
func parseFileSources(values []string) ([]artifact.Source, error) {
	sources := make([]artifact.Source, 0, len(values))
	for _, v := range values {
		k, path, ok := strings.Cut(v, "=")
		switch {
		case !ok:
			if v == "" {
				return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "empty --from-file value")
			}
			sources = append(sources, artifact.File(v))
		case k == "" || path == "":
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"invalid --from-file value, expected [name=]path",
				map[string]any{"value": v})
		default:
			sources = append(sources, artifact.NamedFile(k, path))
		}
	}
	return sources, nil
}
