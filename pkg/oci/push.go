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

package oci

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/ttomsu/halyard/pkg/defaults"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

// ArtifactType is the OCI artifact type of pushed manifest directories.
const ArtifactType = "application/vnd.halyard.manifests.v1"

// PushOptions configures Package and Push.
type PushOptions struct {
	// SourceDir is the directory of rendered manifests.
	SourceDir string
	// Reference is the parsed registry target; its Tag must be set.
	Reference *Reference
	// Annotations are added to the manifest.
	Annotations map[string]string
	// ReproducibleTimestamp pins org.opencontainers.image.created so repeated
	// pushes of the same content share a digest.
	ReproducibleTimestamp string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult describes a packaged or pushed artifact.
type PushResult struct {
	// Digest is the manifest digest.
	Digest string
	// Reference is registry/repository:tag.
	Reference string
	// StorePath is the local OCI layout directory; set by Package only.
	StorePath string
}

// Package writes the source directory as a tagged artifact into an OCI image
// layout at outputDir without contacting a registry.
func Package(ctx context.Context, outputDir string, opts PushOptions) (*PushResult, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	fs, err := packDir(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fs.Close() }()

	store, err := oci.New(outputDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create OCI layout", err)
	}

	desc, err := oras.Copy(ctx, fs, opts.Reference.Tag, store, opts.Reference.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to copy artifact to OCI layout", err)
	}

	slog.Debug("OCI artifact packaged",
		"reference", opts.Reference.ImageReference(),
		"digest", desc.Digest.String(),
		"store_path", outputDir,
	)

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: opts.Reference.ImageReference(),
		StorePath: outputDir,
	}, nil
}

// Push packs the source directory as one OCI 1.1 artifact and copies it to
// the registry, authenticating with Docker credentials when present.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
	defer cancel()

	fs, err := packDir(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fs.Close() }()

	ref := opts.Reference
	repo, err := remote.NewRepository(ref.Registry + "/" + ref.Repository)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	slog.Info("pushing OCI artifact",
		"registry", ref.Registry,
		"repository", ref.Repository,
		"tag", ref.Tag,
	)

	desc, err := oras.Copy(ctx, fs, ref.Tag, repo, ref.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnavailable, "failed to push artifact to registry", err,
			map[string]any{"reference": ref.ImageReference()})
	}

	slog.Info("OCI artifact pushed",
		"reference", ref.ImageReference(),
		"digest", desc.Digest.String(),
	)

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: ref.ImageReference(),
	}, nil
}

func validateOptions(opts PushOptions) error {
	if opts.Reference == nil || !opts.Reference.IsOCI {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference is required")
	}
	if opts.Reference.Tag == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required to push OCI artifact")
	}
	if err := ValidateRegistryReference(opts.Reference.Registry, opts.Reference.Repository); err != nil {
		return err
	}
	info, err := os.Stat(opts.SourceDir)
	if err != nil || !info.IsDir() {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "source directory does not exist",
			map[string]any{"dir": opts.SourceDir})
	}
	return nil
}

// packDir returns a file store holding the tagged, packed manifest of SourceDir.
// The caller closes the store.
func packDir(ctx context.Context, opts PushOptions) (*file.Store, error) {
	absDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve source directory", err)
	}

	fs, err := file.New(absDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create file store", err)
	}
	fs.TarReproducible = true

	layer, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, absDir)
	if err != nil {
		_ = fs.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to add source directory to store", err)
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	created := opts.ReproducibleTimestamp
	if created == "" {
		created = time.Now().UTC().Format(time.RFC3339)
	}
	annotations[ociv1.AnnotationCreated] = created

	manifest, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		_ = fs.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to pack manifest", err)
	}

	if err := fs.Tag(ctx, manifest, opts.Reference.Tag); err != nil {
		_ = fs.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to tag manifest in local store", err)
	}
	return fs, nil
}

// stripProtocol removes an http:// or https:// prefix from a registry host.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	return strings.TrimPrefix(registry, "http://")
}

// createAuthClient returns a registry client with Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}
