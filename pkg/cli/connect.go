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
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
	"github.com/ttomsu/halyard/pkg/kubectl"
)

const podPlaceholder = "<pod>"

type connectCmdOptions struct {
	namespace string
	service   string
	pod       string
	port      int
	dryRun    bool
	account   kubectl.Account
}

func parseConnectCmdOptions(cmd *cli.Command) (*connectCmdOptions, error) {
	port := int(cmd.Int("port"))
	if port <= 0 || port > 65535 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "port must be between 1 and 65535",
			map[string]any{"port": port})
	}
	opts := &connectCmdOptions{
		namespace: cmd.String("namespace"),
		service:   cmd.String("service"),
		pod:       cmd.String("pod"),
		port:      port,
		dryRun:    cmd.Bool("dry-run"),
		account:   accountFromFlags(cmd),
	}
	if opts.service == "" && opts.pod == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "--service or --pod is required")
	}
	return opts, nil
}

func connectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "connect",
		EnableShellCompletion: true,
		Usage:                 "Forward a local port to a service pod with kubectl",
		Description: `Looks up the first pod labelled cluster=<service> and runs kubectl
port-forward to it. The kubeconfig may be an encrypted secret reference; it is
decrypted to a private file for the duration of the command.

# Examples

  halctl connect --namespace spinnaker --service spin-deck --port 9000
  halctl connect -n spinnaker --pod spin-gate-5d8f --port 8084 --dry-run`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "namespace",
				Aliases: []string{"n"},
				Usage:   "Namespace of the service",
				Sources: cli.EnvVars("HALCTL_NAMESPACE"),
			},
			&cli.StringFlag{
				Name:  "service",
				Usage: "Service cluster label to look the pod up by",
			},
			&cli.StringFlag{
				Name:  "pod",
				Usage: "Pod name; skips the lookup",
			},
			&cli.IntFlag{
				Name:     "port",
				Aliases:  []string{"p"},
				Required: true,
				Usage:    "Port to forward",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the kubectl commands instead of running them",
			},
			kubeconfigFlag,
			contextFlag,
			inClusterFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseConnectCmdOptions(cmd)
			if err != nil {
				return err
			}
			return runConnect(ctx, cmd, opts)
		},
	}
}

func runConnect(ctx context.Context, cmd *cli.Command, opts *connectCmdOptions) error {
	resolver := newSecretResolver(opts.account, opts.namespace)
	defer func() {
		if err := resolver.Close(); err != nil {
			slog.Warn("failed to remove decrypted files", "error", err)
		}
	}()

	out := cmd.Root().Writer
	pod := opts.pod
	if pod == "" {
		if opts.dryRun {
			lookup, err := kubectl.PodServiceCommand(ctx, opts.account, resolver, opts.namespace, opts.service)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.Join(lookup, " "))
			pod = podPlaceholder
		} else {
			name, err := kubectl.PodName(ctx, opts.account, resolver, opts.namespace, opts.service)
			if err != nil {
				return err
			}
			pod = name
		}
	}

	forward, err := kubectl.ConnectPodCommand(ctx, opts.account, resolver, opts.namespace, pod, opts.port)
	if err != nil {
		return err
	}
	if opts.dryRun {
		fmt.Fprintln(out, strings.Join(forward, " "))
		return nil
	}

	slog.Info("forwarding port",
		"namespace", opts.namespace,
		"pod", pod,
		"port", opts.port,
	)
	return kubectl.Run(ctx, forward, out, cmd.Root().ErrWriter)
}
