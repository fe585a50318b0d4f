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

package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
)

// ErrorCode classifies a failure.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTimeout indicates an operation exceeded its time limit or was cancelled.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeUnavailable indicates a dependency (cluster, registry, secret engine) could not be reached.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConfigFileRead indicates a declared config file could not be fully read.
	ErrCodeConfigFileRead ErrorCode = "CONFIG_FILE_READ"
	// ErrCodeEncoding indicates content could not be encoded for its target artifact kind.
	ErrCodeEncoding ErrorCode = "ENCODING"
)

// StructuredError carries a code for programmatic handling, a message, the
// underlying cause, and key/value context such as artifact and source names.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a StructuredError with no cause.
func New(code ErrorCode, message string) *StructuredError {
	return build(code, message, nil, nil)
}

// NewWithContext creates a StructuredError with no cause and the given context.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return build(code, message, nil, context)
}

// Wrap classifies cause under code.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return build(code, message, cause, nil)
}

// WrapWithContext classifies cause under code and attaches context.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return build(code, message, cause, context)
}

func build(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// HasCode reports whether any StructuredError in err's chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var se *StructuredError
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}
	return false
}

// CodeOf returns the code of the outermost StructuredError in err's chain,
// or an empty code when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// Attrs flattens err into slog key/value pairs: the outermost code plus the
// merged context of every StructuredError in the chain, keys sorted.
// Inner context loses to outer context on key collision.
func Attrs(err error) []any {
	if err == nil {
		return nil
	}
	merged := map[string]any{}
	for e := err; e != nil; {
		var se *StructuredError
		if !stderrors.As(e, &se) {
			break
		}
		for k, v := range se.Context {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
		e = se.Cause
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, 2*len(keys)+4)
	if code := CodeOf(err); code != "" {
		attrs = append(attrs, slog.String("code", string(code)))
	}
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, merged[k]))
	}
	return append(attrs, slog.String("error", err.Error()))
}
