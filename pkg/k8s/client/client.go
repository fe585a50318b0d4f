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

package client

import (
	"context"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
	"github.com/ttomsu/halyard/pkg/kubectl"
	"github.com/ttomsu/halyard/pkg/secrets"
)

// Interface is an alias for kubernetes.Interface so callers can pass
// fake.NewClientset() in tests.
type Interface = kubernetes.Interface

// BuildKubeClient creates a Kubernetes client from the given kubeconfig file
// and context.
//
// An empty kubeconfig is discovered in order from:
//  1. KUBECONFIG environment variable
//  2. ~/.kube/config (if it exists)
//  3. In-cluster configuration (service account)
//
// An empty kubeContext selects the kubeconfig's current context.
func BuildKubeClient(kubeconfig, kubeContext string) (*kubernetes.Clientset, *rest.Config, error) {
	kubeconfig = discoverKubeconfig(kubeconfig)

	var config *rest.Config
	var err error
	if kubeconfig == "" {
		// skip clientcmd so it does not warn about missing --kubeconfig
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to get in-cluster config", err)
		}
	} else {
		config, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			&clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig},
			&clientcmd.ConfigOverrides{CurrentContext: kubeContext},
		).ClientConfig()
		if err != nil {
			return nil, nil, apperrors.WrapWithContext(apperrors.ErrCodeConfigFileRead,
				"failed to build kube config from "+kubeconfig, err,
				map[string]any{"path": kubeconfig, "context": kubeContext})
		}
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create kubernetes client", err)
	}
	return client, config, nil
}

// ForAccount creates a client for a kubectl account. Service accounts use the
// in-cluster configuration; encrypted kubeconfig references are decrypted
// through r first.
func ForAccount(ctx context.Context, account kubectl.Account, r secrets.Resolver) (Interface, *rest.Config, error) {
	if account.ServiceAccount {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to get in-cluster config", err)
		}
		client, err := kubernetes.NewForConfig(config)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create kubernetes client", err)
		}
		return client, config, nil
	}

	kubeconfig := account.KubeconfigFile
	if secrets.IsEncrypted(kubeconfig) {
		if r == nil {
			return nil, nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
				"encrypted kubeconfig requires a secret resolver")
		}
		path, err := r.DecryptAsFile(ctx, kubeconfig)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to decrypt kubeconfig", err)
		}
		kubeconfig = path
	}

	return BuildKubeClient(kubeconfig, account.Context)
}

func discoverKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}
