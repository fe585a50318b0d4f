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
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ttomsu/halyard/pkg/artifact"
	"github.com/ttomsu/halyard/pkg/defaults"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
	"github.com/ttomsu/halyard/pkg/k8s/apply"
	"github.com/ttomsu/halyard/pkg/kubectl"
	"github.com/ttomsu/halyard/pkg/manifest"
	"github.com/ttomsu/halyard/pkg/oci"
	"github.com/ttomsu/halyard/pkg/renderer"
	"github.com/ttomsu/halyard/pkg/secrets"
)

const defaultOCITag = "latest"

// renderCmdOptions holds parsed options for the render command.
type renderCmdOptions struct {
	requests    []artifact.Request
	namespace   string
	target      *oci.Reference
	apply       bool
	account     kubectl.Account
	plainHTTP   bool
	insecureTLS bool
}

// parseRenderCmdOptions parses and validates command options.
func parseRenderCmdOptions(cmd *cli.Command) (*renderCmdOptions, error) {
	namespace := cmd.String("namespace")
	cluster := cmd.String("cluster")

	literals, err := parseLiteralSources(cmd.StringSlice("from-literal"))
	if err != nil {
		return nil, err
	}
	files, err := parseFileSources(cmd.StringSlice("from-file"))
	if err != nil {
		return nil, err
	}

	var requests []artifact.Request
	if batch := cmd.String("batch"); batch != "" {
		if cmd.IsSet("kind") || cmd.IsSet("name") || len(literals) > 0 || len(files) > 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
				"--batch cannot be combined with --kind, --name, --from-literal or --from-file")
		}
		if requests, err = loadBatch(batch, namespace, cluster); err != nil {
			return nil, err
		}
	} else {
		kind, err := artifact.ParseKind(cmd.String("kind"))
		if err != nil {
			return nil, err
		}
		name := cmd.String("name")
		if name == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "--name is required without --batch")
		}
		requests = []artifact.Request{{
			Namespace:   namespace,
			ClusterName: cluster,
			Name:        name,
			Kind:        kind,
			Sources:     append(literals, files...),
		}}
	}

	target, err := oci.ParseOutputTarget(cmd.String("output"))
	if err != nil {
		return nil, err
	}
	if target.IsOCI && target.Tag == "" {
		target = target.WithTag(defaultOCITag)
	}

	return &renderCmdOptions{
		requests:    requests,
		namespace:   namespace,
		target:      target,
		apply:       cmd.Bool("apply"),
		account:     accountFromFlags(cmd),
		plainHTTP:   cmd.Bool("plain-http"),
		insecureTLS: cmd.Bool("insecure-tls"),
	}, nil
}

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:                  "render",
		EnableShellCompletion: true,
		Usage:                 "Render Secrets and ConfigMaps from literals and files",
		Description: `Builds a Secret or ConfigMap whose name carries a fingerprint of its
content, so any content change produces a new name and triggers a rollout.

Secret values are base64 encoded. ConfigMap values are stored as escaped
strings; file content bound for a ConfigMap has template delimiters removed.

Values of the form encrypted:k8s!n:<secret>!k:<key>[!ns:<namespace>] are read
from existing Kubernetes Secrets before the build.

# Batch

--batch renders several artifacts at once from a YAML file. Relative file
paths resolve against the batch file; --namespace and --cluster fill in
entries that omit them.

  artifacts:
    - kind: ConfigMap
      name: spin-clouddriver-files
      cluster: spin-clouddriver
      files: [clouddriver.yml, profile.sh=./profiles/clouddriver.sh]
    - kind: Secret
      name: spin-gate-files
      literals: [password=encrypted:k8s!n:spin-secrets!k:gate]

# Output

  -                         write the manifest to stdout (default)
  ./dir                     write <name>.yaml and checksums.txt to a directory
  oci://registry/repo:tag   push the manifest directory as an OCI artifact

# Examples

Render a ConfigMap to stdout:
  halctl render --kind ConfigMap --name spin-clouddriver-files \
    --namespace spinnaker --cluster spin-clouddriver \
    --from-file ./clouddriver.yml --from-literal greeting=hello

Render a Secret into a directory and apply it:
  halctl render --kind Secret --name spin-gate-files --namespace spinnaker \
    --from-file keystore.jks=./gate.jks --output ./manifests --apply

Render a batch and push it to a registry:
  halctl render --batch ./artifacts.yaml --namespace spinnaker \
    --output oci://ghcr.io/acme/spinnaker-config:v1`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Artifact kind (Secret or ConfigMap)",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Base artifact name; the content fingerprint is appended",
			},
			&cli.StringFlag{
				Name:    "batch",
				Aliases: []string{"b"},
				Usage:   "YAML file listing several artifacts to render instead of --kind/--name",
			},
			&cli.StringFlag{
				Name:    "namespace",
				Aliases: []string{"n"},
				Usage:   "Kubernetes namespace of the artifact",
				Sources: cli.EnvVars("HALCTL_NAMESPACE"),
			},
			&cli.StringFlag{
				Name:  "cluster",
				Usage: "Service cluster name recorded in the cluster label",
			},
			&cli.StringSliceFlag{
				Name:  "from-literal",
				Usage: "Inline content (format: name=value, can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "from-file",
				Usage: "File content (format: [name=]path, can be repeated)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output target: - for stdout, a directory, or oci://registry/repository[:tag]",
				Value:   oci.StdoutTarget,
			},
			&cli.BoolFlag{
				Name:  "apply",
				Usage: "Server-side apply the rendered artifacts to the cluster",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the OCI registry",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS verification for the OCI registry",
			},
			kubeconfigFlag,
			contextFlag,
			inClusterFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseRenderCmdOptions(cmd)
			if err != nil {
				return err
			}
			return runRender(ctx, cmd, opts)
		},
	}
}

func runRender(ctx context.Context, cmd *cli.Command, opts *renderCmdOptions) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.CLIRenderTimeout)
	defer cancel()

	resolver := newSecretResolver(opts.account, opts.namespace)
	defer func() {
		if err := resolver.Close(); err != nil {
			slog.Warn("failed to remove decrypted files", "error", err)
		}
	}()

	reqs := make([]artifact.Request, 0, len(opts.requests))
	for _, req := range opts.requests {
		sources, err := secrets.ResolveSources(ctx, resolver, req.Sources)
		if err != nil {
			return err
		}
		req.Sources = sources
		reqs = append(reqs, req)
	}

	specs, err := artifact.NewBuilder().BuildAll(ctx, reqs)
	if err != nil {
		return err
	}

	r := renderer.New()
	docs := make([]manifest.Document, 0, len(specs))
	for _, spec := range specs {
		content, err := r.RenderSpec(spec)
		if err != nil {
			return err
		}
		docs = append(docs, manifest.Document{Name: spec.Name, Kind: spec.Kind, Content: content})
	}

	if err := writeOutput(ctx, cmd, opts, docs); err != nil {
		return err
	}

	if !opts.apply {
		return nil
	}

	kube, err := kubeClientFor(ctx, opts.account, resolver)
	if err != nil {
		return err
	}
	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}
	results, err := apply.NewApplier(kube).ApplyAll(ctx, contents)
	if err != nil {
		return err
	}
	slog.Info("render complete", "applied", len(results))
	return nil
}

func writeOutput(ctx context.Context, cmd *cli.Command, opts *renderCmdOptions, docs []manifest.Document) error {
	w := manifest.NewWriter()
	target := opts.target

	switch {
	case target.IsStdout:
		pretty := make([]manifest.Document, 0, len(docs))
		for _, doc := range docs {
			content, err := manifest.Prettify(doc.Content)
			if err != nil {
				return err
			}
			doc.Content = content
			pretty = append(pretty, doc)
		}
		return w.WriteStream(cmd.Root().Writer, pretty)

	case !target.IsOCI:
		_, err := w.WriteDir(ctx, target.LocalPath, docs)
		return err

	default:
		dir, err := os.MkdirTemp("", "halctl-oci-*")
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create staging directory", err)
		}
		defer func() { _ = os.RemoveAll(dir) }()

		if _, err := w.WriteDir(ctx, dir, docs); err != nil {
			return err
		}

		names := make([]string, 0, len(docs))
		for _, doc := range docs {
			names = append(names, doc.Name)
		}
		res, err := oci.Push(ctx, oci.PushOptions{
			SourceDir: dir,
			Reference: target,
			Annotations: map[string]string{
				"org.opencontainers.image.title":   strings.Join(names, ","),
				"org.opencontainers.image.version": version,
			},
			PlainHTTP:   opts.plainHTTP,
			InsecureTLS: opts.insecureTLS,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.Root().Writer, "%s@%s\n", res.Reference, res.Digest)
		return nil
	}
}
