package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formats lists the accepted --format values.
var Formats = []string{"json", "edn"}

// Validate normalizes a --format value, rejecting unknown ones before any request is made.
func Validate(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case "":
		return "json", nil
	case "json", "edn":
		return f, nil
	}
	return "", fmt.Errorf("unknown format: %s (want %s)", format, strings.Join(Formats, "|"))
}

// Write writes v in the requested format. Backend payloads may be passed as
// json.RawMessage; they are emitted unchanged in JSON and converted for EDN.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Validate(format)
	if err != nil {
		return err
	}
	if f == "edn" {
		return WriteEDN(w, v, pretty)
	}
	return WriteJSON(w, v, pretty)
}

// WriteJSON writes strict JSON followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var (
		b   []byte
		err error
	)
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
