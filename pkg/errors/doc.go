// Package errors provides structured error types for better observability
// and programmatic error handling across halctl.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeConfigFileRead,
//	    "failed to read required config file: /etc/halyard/profile.yml",
//	    cause,
//	    map[string]any{
//	        "artifact": "spin-clouddriver-files",
//	        "source":   "profile.yml",
//	    },
//	)
//
// Callers test for a classification with HasCode:
//
//	if errors.HasCode(err, errors.ErrCodeConfigFileRead) {
//	    // report the missing file
//	}
//
// Attrs flattens the code and merged context of a chain into slog pairs:
//
//	slog.Error("render failed", errors.Attrs(err)...)
package errors
