package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes strict JSON output for CLI commands.
//
// Output stays strict JSON so scripts can pipe it; anything human-oriented
// (rendered markdown, the TUI) goes through a separate path.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// Data wraps a payload in the standard {"data": ...} envelope.
func Data(v any) map[string]any {
	return map[string]any{"data": v}
}
