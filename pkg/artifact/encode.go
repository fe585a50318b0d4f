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
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/ttomsu/halyard/pkg/errors"
)

// Encode converts a raw payload into the value stored for the given kind.
//
// Secret values are standard, padded base64 of the payload. ConfigMap values are
// the payload as text, escaped as the body of a double-quoted JSON string; the
// payload must be valid UTF-8.
func Encode(payload []byte, kind Kind) (string, error) {
	switch kind {
	case KindSecret:
		return base64.StdEncoding.EncodeToString(payload), nil
	case KindConfigMap:
		if err := validateText(payload); err != nil {
			return "", err
		}
		return EscapeJSONString(string(payload)), nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest,
			"unsupported artifact kind: "+kind.String())
	}
}

// EscapeJSONString returns s escaped for embedding between double quotes in a
// JSON document, without the surrounding quotes. HTML characters are left as is.
//
// Beyond the JSON escapes, DEL, the C1 controls and U+FFFE/U+FFFF are written
// as \u00XX sequences: YAML double-quoted scalars reject them or, for NEL,
// fold them into a space. The result is still a valid JSON string body.
func EscapeJSONString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// encoding a string value cannot fail
	_ = enc.Encode(s)

	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return escapeYAMLUnsafe(string(out[1 : len(out)-1]))
}

func escapeYAMLUnsafe(s string) string {
	if !strings.ContainsFunc(s, yamlUnsafe) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for _, r := range s {
		if yamlUnsafe(r) {
			fmt.Fprintf(&b, `\u%04x`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// yamlUnsafe reports runes left unescaped by encoding/json that a YAML
// double-quoted scalar cannot carry verbatim.
func yamlUnsafe(r rune) bool {
	return (r >= 0x7f && r <= 0x9f) || r == 0xfffe || r == 0xffff
}

// validateText rejects payloads that cannot be decoded as UTF-8 text.
func validateText(payload []byte) error {
	if utf8.Valid(payload) {
		return nil
	}
	return apperrors.NewWithContext(apperrors.ErrCodeEncoding,
		"content is not valid UTF-8 text",
		map[string]any{"offset": invalidUTF8Offset(payload)})
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
