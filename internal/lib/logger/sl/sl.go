// Package sl holds small helpers for building slog attributes.
package sl

import (
	"log/slog"
)

// Err creates a slog.Attr with the given error. A nil error renders as an empty value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}

	return slog.String("error", err.Error())
}

// Op tags a record with the operation that produced it.
func Op(opn string) slog.Attr {
	return slog.String("op", opn)
}
