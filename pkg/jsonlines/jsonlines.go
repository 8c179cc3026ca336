/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: jsonlines.go
Description: Strict JSON-per-line parser. Decodes each record as a single
RFC 8259 JSON value using encoding/json — the same library the fuzzer's
structure-inference engine uses to read its samples — and classifies the
result as a parsed object, a parsed-but-not-an-object value, or a parse
failure, per §4.4.
*/

package jsonlines

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/kleascm/loghound/pkg/types"
)

// Parse decodes every record in offsets from b into a ParsedLine, in
// record order. Blank records (zero bytes, or only whitespace) are
// reported as a parse failure with message "empty".
func Parse(b []byte, offsets types.RecordOffsets) []types.ParsedLine {
	m := offsets.Count()
	lines := make([]types.ParsedLine, m)

	for i := 0; i < m; i++ {
		lines[i] = parseOne(i, b[offsets.Starts[i]:offsets.Ends[i]])
	}
	return lines
}

func parseOne(index int, raw []byte) types.ParsedLine {
	if len(bytes.TrimSpace(raw)) == 0 {
		return types.ParsedLine{Index: index, Status: types.ParseFailed, Err: "empty"}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return types.ParsedLine{Index: index, Status: types.ParseFailed, Err: err.Error()}
	}
	// A valid single JSON value must consume the entire record; anything
	// left over (besides trailing whitespace the decoder already skips)
	// means this was not one strict JSON value.
	if _, err := dec.Token(); err != io.EOF {
		return types.ParsedLine{Index: index, Status: types.ParseFailed, Err: "trailing data after JSON value"}
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return types.ParsedLine{Index: index, Status: types.ParsedOther, Value: v, Err: "not an object"}
	}
	return types.ParsedLine{Index: index, Status: types.ParsedObject, Value: v, Object: obj}
}

// Canon produces the canonical encoding of a decoded JSON value: object
// keys sorted, minimal whitespace, numbers kept as written (via
// json.Number, preserved through UseNumber in Parse). Used both to hash
// values for cardinality tracking and to satisfy the canon(canon(v)) =
// canon(v) idempotence property in §8.
func Canon(v interface{}) string {
	var buf bytes.Buffer
	writeCanon(&buf, v)
	return buf.String()
}

func writeCanon(buf *bytes.Buffer, v interface{}) {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(string(val))
	case string:
		enc, _ := json.Marshal(val)
		buf.Write(enc)
	case []interface{}:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanon(buf, elem)
		}
		buf.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			enc, _ := json.Marshal(k)
			buf.Write(enc)
			buf.WriteByte(':')
			writeCanon(buf, val[k])
		}
		buf.WriteByte('}')
	default:
		// Unreachable for values decoded with UseNumber, kept defensive.
		enc, _ := json.Marshal(val)
		buf.Write(enc)
	}
}

// Tag returns the schema tag-set name for a decoded value, per §3's
// {null, bool, number, string, array, object} tag set.
func Tag(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
