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

// ContentMap maps content source names to their encoded values.
// Keys keep their first insertion order; setting an existing key replaces
// its value in place.
type ContentMap struct {
	keys   []string
	values map[string]string
}

// NewContentMap creates an empty content map.
func NewContentMap() *ContentMap {
	return &ContentMap{values: make(map[string]string)}
}

// Set inserts or replaces the value for key and reports whether a value was replaced.
func (m *ContentMap) Set(key, value string) bool {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	_, replaced := m.values[key]
	if !replaced {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return replaced
}

// Get returns the value stored for key.
func (m *ContentMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in first-insertion order.
func (m *ContentMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of entries.
func (m *ContentMap) Len() int {
	return len(m.keys)
}

// Map returns a copy of the entries as a plain map.
func (m *ContentMap) Map() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
