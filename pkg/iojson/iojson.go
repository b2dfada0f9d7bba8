// Package iojson provides JSON input/output helpers for CLI commands:
// pretty-printed objects for humans, JSON lines for scripts, and a
// file-or-stdin reader for piped input.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteWith writes obj to w as indented JSON.
func WriteWith(w io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout].
func Write(obj any) error {
	return WriteWith(os.Stdout, obj)
}

// WriteLine writes obj to w as a single compact JSON line. Use for
// line-oriented output consumed by jq and similar tools.
func WriteLine(w io.Writer, obj any) error {
	return json.NewEncoder(w).Encode(obj)
}
