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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ttomsu/halyard/pkg/checksum"
	apperrors "github.com/ttomsu/halyard/pkg/errors"
	"github.com/ttomsu/halyard/pkg/manifest"
)

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "verify",
		EnableShellCompletion: true,
		Usage:                 "Verify a rendered manifest directory against its checksums",
		Description: `Recomputes the SHA256 of every file listed in checksums.txt, rejects
files missing from the list and checks that each manifest decodes as a v1
Secret or ConfigMap.

# Examples

  halctl verify --dir ./manifests`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Required: true,
				Usage:    "Directory written by render --output",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runVerify(ctx, cmd, cmd.String("dir"))
		},
	}
}

func runVerify(ctx context.Context, cmd *cli.Command, dir string) error {
	mismatched, err := checksum.Verify(ctx, dir)
	if err != nil {
		return err
	}
	if len(mismatched) > 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"checksum mismatch: "+strings.Join(mismatched, ", "),
			map[string]any{"dir": dir})
	}

	docs, err := manifest.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		fmt.Fprintf(cmd.Root().Writer, "%s\t%s\tOK\n", doc.Kind, doc.Name)
	}
	return nil
}
