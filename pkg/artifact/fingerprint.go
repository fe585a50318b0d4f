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
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns an order-independent, non-negative hash of the content map.
//
// Each entry hashes its length-prefixed key and value; entry hashes are summed
// so iteration order never matters. This names artifacts, it does not protect them.
func Fingerprint(content *ContentMap) int64 {
	var sum uint64
	if content != nil {
		for k, v := range content.values {
			sum += entryDigest(k, v)
		}
	}
	return absInt64(int64(sum))
}

// FingerprintName returns base suffixed with the content fingerprint.
func FingerprintName(base string, content *ContentMap) string {
	return base + "-" + strconv.FormatInt(Fingerprint(content), 10)
}

func entryDigest(key, value string) uint64 {
	d := xxhash.New()
	writeField(d, key)
	writeField(d, value)
	return d.Sum64()
}

func writeField(d *xxhash.Digest, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	_, _ = d.Write(n[:])
	_, _ = d.WriteString(s)
}

// absInt64 maps math.MinInt64, which has no positive counterpart, to math.MaxInt64.
func absInt64(v int64) int64 {
	switch {
	case v == math.MinInt64:
		return math.MaxInt64
	case v < 0:
		return -v
	default:
		return v
	}
}
