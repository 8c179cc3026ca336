package jsonlines_test

import (
	"encoding/json"
	"testing"

	"github.com/kleascm/loghound/pkg/jsonlines"
	"github.com/kleascm/loghound/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassifiesObjectsOtherAndFailures(t *testing.T) {
	input := []byte("{\"a\":1}\n[1,2,3]\nnot json\n\n")
	offsets := types.SplitRecords(input)
	lines := jsonlines.Parse(input, offsets)
	require.Len(t, lines, 4)

	assert.Equal(t, types.ParsedObject, lines[0].Status)
	require.Contains(t, lines[0].Object, "a")
	assert.Equal(t, "1", string(lines[0].Object["a"].(json.Number)))

	assert.Equal(t, types.ParsedOther, lines[1].Status)
	assert.Equal(t, "not an object", lines[1].Err)

	assert.Equal(t, types.ParseFailed, lines[2].Status)
	assert.NotEmpty(t, lines[2].Err)

	assert.Equal(t, types.ParseFailed, lines[3].Status)
	assert.Equal(t, "empty", lines[3].Err)
}

func TestParseRejectsTrailingData(t *testing.T) {
	input := []byte("{\"a\":1} garbage\n")
	offsets := types.SplitRecords(input)
	lines := jsonlines.Parse(input, offsets)
	require.Len(t, lines, 1)
	assert.Equal(t, types.ParseFailed, lines[0].Status)
}

func TestCanonIsIdempotent(t *testing.T) {
	input := []byte(`{"b":2,"a":[1,2,"x"],"c":{"z":1,"y":2}}` + "\n")
	offsets := types.SplitRecords(input)
	lines := jsonlines.Parse(input, offsets)
	require.Len(t, lines, 1)

	once := jsonlines.Canon(lines[0].Value)

	// Re-parsing the canonical form and re-canonicalizing must be a fixed point.
	reoffsets := types.SplitRecords([]byte(once + "\n"))
	reparsed := jsonlines.Parse([]byte(once+"\n"), reoffsets)
	twice := jsonlines.Canon(reparsed[0].Value)

	assert.Equal(t, once, twice)
}

func TestCanonIsKeyOrderInsensitive(t *testing.T) {
	a := []byte(`{"a":1,"b":2}` + "\n")
	b := []byte(`{"b":2,"a":1}` + "\n")
	la := jsonlines.Parse(a, types.SplitRecords(a))
	lb := jsonlines.Parse(b, types.SplitRecords(b))
	assert.Equal(t, jsonlines.Canon(la[0].Value), jsonlines.Canon(lb[0].Value))
}

func TestTagCoversAllKinds(t *testing.T) {
	input := []byte(`{"n":null,"b":true,"i":1,"s":"x","a":[1],"o":{}}` + "\n")
	lines := jsonlines.Parse(input, types.SplitRecords(input))
	obj := lines[0].Object
	assert.Equal(t, "null", jsonlines.Tag(obj["n"]))
	assert.Equal(t, "bool", jsonlines.Tag(obj["b"]))
	assert.Equal(t, "number", jsonlines.Tag(obj["i"]))
	assert.Equal(t, "string", jsonlines.Tag(obj["s"]))
	assert.Equal(t, "array", jsonlines.Tag(obj["a"]))
	assert.Equal(t, "object", jsonlines.Tag(obj["o"]))
}
