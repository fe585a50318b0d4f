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

// Package logging configures the process-wide slog logger used by halctl.
//
// Records are written to stderr as JSON with "module" and "version" attributes
// attached. Debug level also records source locations.
//
// The level comes from the --log-level flag or, when that is empty, the
// LOG_LEVEL environment variable:
//
//	logging.SetDefaultStructuredLoggerWithLevel("halctl", version, "debug")
//	slog.Debug("source resolved", "name", name, "bytes", len(b))
//
// Level names are case-insensitive: debug, info, warn (or warning), error.
// Anything else resolves to info.
package logging
