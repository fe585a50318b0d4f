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
	"math/rand/v2"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "no markers", input: "no markers here", want: "no markers here"},
		{name: "balanced pair", input: "a{%b%}c", want: "abc"},
		{name: "directive block", input: "{% if x %}shell{% endif %}", want: " if x shell endif "},
		{name: "unbalanced open", input: "tail {% only", want: "tail  only"},
		{name: "unbalanced close", input: "only %} head", want: "only  head"},
		{name: "percent alone", input: "100% {done}", want: "100% {done}"},
		{name: "jinja expression untouched", input: "{{ value }}", want: "{{ value }}"},
		{name: "nested after removal", input: "{{%%}", want: "{"},
		{name: "marker formed by removal", input: "%{%}", want: ""},
		{name: "adjacent markers", input: "{%%}{%%}", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if strings.Contains(got, TemplateLeftDelim) || strings.Contains(got, TemplateRightDelim) {
				t.Errorf("Sanitize(%q) = %q still contains a delimiter", tt.input, got)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	alphabet := []byte("{}%a ")

	for range 2000 {
		b := make([]byte, r.IntN(16))
		for i := range b {
			b[i] = alphabet[r.IntN(len(alphabet))]
		}
		in := string(b)

		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
		if strings.Contains(once, TemplateLeftDelim) || strings.Contains(once, TemplateRightDelim) {
			t.Fatalf("Sanitize(%q) = %q still contains a delimiter", in, once)
		}
	}
}
