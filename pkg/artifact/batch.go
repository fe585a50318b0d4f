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
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ttomsu/halyard/pkg/defaults"
)

// BuildAll builds independent artifacts concurrently.
// Specs are returned in request order. The first failure cancels the
// remaining builds and no specs are returned.
func (b *Builder) BuildAll(ctx context.Context, reqs []Request) ([]*Spec, error) {
	specs := make([]*Spec, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaults.BuildConcurrency)

	for i, req := range reqs {
		g.Go(func() error {
			spec, err := b.Build(gctx, req)
			if err != nil {
				return err
			}
			specs[i] = spec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return specs, nil
}
