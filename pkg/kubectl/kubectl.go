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

package kubectl

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
	"github.com/ttomsu/halyard/pkg/secrets"
)

const (
	// Binary is the kubectl executable name.
	Binary = "kubectl"

	podNameJSONPath = "-o=jsonpath='{.items[0].metadata.name}'"
)

// Account holds the kubectl connection settings of a Kubernetes account.
type Account struct {
	// Context is the kubeconfig context to use; empty selects the current context.
	Context string
	// KubeconfigFile is a path or an encrypted secret reference.
	KubeconfigFile string
	// ServiceAccount is set when kubectl runs inside the cluster with the
	// pod's service account; no context or kubeconfig flags are emitted.
	ServiceAccount bool
}

// Prefix returns the kubectl invocation prefix for the account.
// Encrypted kubeconfig references are decrypted to a file through r.
func Prefix(ctx context.Context, account Account, r secrets.Resolver) ([]string, error) {
	command := []string{Binary}
	if account.ServiceAccount {
		return command, nil
	}

	if account.Context != "" {
		command = append(command, "--context", account.Context)
	}

	kubeconfig := account.KubeconfigFile
	if secrets.IsEncrypted(kubeconfig) {
		if r == nil {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
				"encrypted kubeconfig requires a secret resolver")
		}
		path, err := r.DecryptAsFile(ctx, kubeconfig)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to decrypt kubeconfig", err)
		}
		kubeconfig = path
	}
	if kubeconfig != "" {
		command = append(command, "--kubeconfig", kubeconfig)
	}

	return command, nil
}

// PodServiceCommand returns the command printing the name of the first pod
// labelled with cluster=service.
func PodServiceCommand(ctx context.Context, account Account, r secrets.Resolver, namespace, service string) ([]string, error) {
	command, err := Prefix(ctx, account, r)
	if err != nil {
		return nil, err
	}
	if namespace != "" {
		command = append(command, "-n="+namespace)
	}
	return append(command, "get", "po", "-l=cluster="+service, podNameJSONPath), nil
}

// ConnectPodCommand returns the command forwarding a local port to pod.
func ConnectPodCommand(ctx context.Context, account Account, r secrets.Resolver, namespace, pod string, port int) ([]string, error) {
	command, err := Prefix(ctx, account, r)
	if err != nil {
		return nil, err
	}
	if namespace != "" {
		command = append(command, "-n="+namespace)
	}
	return append(command, "port-forward", pod, strconv.Itoa(port)), nil
}

// PodName looks up the first pod labelled cluster=service in namespace.
func PodName(ctx context.Context, account Account, r secrets.Resolver, namespace, service string) (string, error) {
	command, err := PodServiceCommand(ctx, account, r, namespace, service)
	if err != nil {
		return "", err
	}
	out, err := Output(ctx, command)
	if err != nil {
		return "", err
	}

	// the jsonpath argument carries shell quotes that kubectl echoes back
	name := strings.Trim(strings.TrimSpace(string(out)), "'")
	if name == "" {
		return "", apperrors.NewWithContext(apperrors.ErrCodeNotFound, "no pod found for service",
			map[string]any{"service": service, "namespace": namespace})
	}
	return name, nil
}

// Output runs an assembled command and returns its standard output.
func Output(ctx context.Context, command []string) ([]byte, error) {
	path, err := lookPath(command)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path, command[1:]...)
	out, err := cmd.Output()
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to execute "+command[0], err,
			map[string]any{"args": strings.Join(command[1:], " ")})
	}

	slog.Debug("kubectl command executed",
		"args", len(command)-1,
		"size_bytes", len(out),
	)
	return out, nil
}

// Run executes an assembled command, streaming its output, until it exits or
// ctx is done.
func Run(ctx context.Context, command []string, stdout, stderr io.Writer) error {
	path, err := lookPath(command)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, path, command[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", ctxErr)
		}
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			command[0]+" exited with error", err,
			map[string]any{"args": strings.Join(command[1:], " ")})
	}
	return nil
}

func lookPath(command []string) (string, error) {
	if len(command) == 0 {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "empty command")
	}
	path, err := exec.LookPath(command[0])
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeUnavailable, command[0]+" not found in PATH", err)
	}
	return path, nil
}
