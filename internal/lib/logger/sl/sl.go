// Package sl holds small helpers for building log/slog attributes.
package sl

import "log/slog"

// Err returns an "error" attribute carrying err's message.
// A nil error yields an empty string value rather than panicking.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
