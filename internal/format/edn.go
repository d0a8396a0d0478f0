package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes v as EDN. Values go through JSON first so json tags decide key
// names; objects become maps with keyword keys and arrays become vectors.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	// Keep backend ids and counters exact.
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	e := ednWriter{pretty: pretty, indent: 2}
	e.value(x, 0)
	e.buf.WriteByte('\n')
	_, err = w.Write(e.buf.Bytes())
	return err
}

type ednWriter struct {
	buf    bytes.Buffer
	pretty bool
	indent int
}

func (e *ednWriter) value(v any, level int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case json.Number:
		e.buf.WriteString(t.String())
	case []any:
		e.open('[')
		for i, it := range t {
			e.sep(i, level)
			e.value(it, level+1)
		}
		e.close(']', len(t), level)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.open('{')
		for i, k := range keys {
			e.sep(i, level)
			e.buf.WriteString(ednKeyword(k))
			e.buf.WriteByte(' ')
			e.value(t[k], level+1)
		}
		e.close('}', len(t), level)
	default:
		e.buf.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func (e *ednWriter) open(c byte) {
	e.buf.WriteByte(c)
}

// sep writes what precedes the i-th element of a collection at level.
func (e *ednWriter) sep(i, level int) {
	if e.pretty {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat(" ", (level+1)*e.indent))
		return
	}
	if i > 0 {
		e.buf.WriteByte(' ')
	}
}

func (e *ednWriter) close(c byte, n, level int) {
	if e.pretty && n > 0 {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat(" ", level*e.indent))
	}
	e.buf.WriteByte(c)
}

// ednKeyword turns a JSON key into a keyword. Keys that cannot be keywords
// (empty, leading digit) stay strings.
func ednKeyword(k string) string {
	s := strings.TrimSpace(k)
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return strconv.Quote(k)
	}
	var b strings.Builder
	b.WriteByte(':')
	for _, r := range s {
		switch {
		case r == ' ' || r == '/' || r == ',' || r == '"' || r == '\\':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
