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

import "strings"

// Template delimiters of the manifest renderer. Foreign file content must not
// contain them, or the renderer would treat that content as live directives.
const (
	TemplateLeftDelim  = "{%"
	TemplateRightDelim = "%}"
)

var delimiterRemover = strings.NewReplacer(TemplateLeftDelim, "", TemplateRightDelim, "")

// Sanitize deletes every template delimiter from text.
//
// Removal is a blind substring deletion, not a parse: a stray "{%" in prose is
// removed too. Deletion repeats until no delimiter remains, so text such as
// "{{%%}" that forms a new delimiter once one is removed is fully cleaned and
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(text string) string {
	for {
		out := delimiterRemover.Replace(text)
		if out == text {
			return out
		}
		text = out
	}
}
