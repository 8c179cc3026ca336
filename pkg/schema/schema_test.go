package schema_test

import (
	"testing"

	"github.com/kleascm/loghound/pkg/jsonlines"
	"github.com/kleascm/loghound/pkg/schema"
	"github.com/kleascm/loghound/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, records []string) []types.ParsedLine {
	t.Helper()
	buf := ""
	for _, r := range records {
		buf += r + "\n"
	}
	b := []byte(buf)
	return jsonlines.Parse(b, types.SplitRecords(b))
}

// Concrete scenario 3: 100 well-formed records plus one with level:42.
func TestBuildDominantTypeAndCardinality(t *testing.T) {
	records := make([]string, 0, 101)
	for i := 0; i < 100; i++ {
		records = append(records, `{"ts":1,"level":"info","msg":"ok"}`)
	}
	records = append(records, `{"ts":1,"level":42}`)

	lines := parseAll(t, records)
	profile := schema.Build(lines, types.DefaultSchemaOptions())

	require.Contains(t, profile.Fields, "level")
	assert.Equal(t, "string", profile.Fields["level"].DominantType)
	assert.Equal(t, "low", profile.Fields["level"].CardinalityClass)
	assert.Equal(t, 101, profile.ObjectRecords)
}

func TestBuildIgnoresNonObjectRecords(t *testing.T) {
	lines := parseAll(t, []string{`{"a":1}`, `[1,2,3]`, `"scalar"`})
	profile := schema.Build(lines, types.DefaultSchemaOptions())
	assert.Equal(t, 1, profile.ObjectRecords)
	assert.Equal(t, 3, profile.TotalRecords)
}

func TestPresenceComputesFraction(t *testing.T) {
	lines := parseAll(t, []string{`{"a":1}`, `{"a":1,"b":2}`, `{"b":2}`})
	profile := schema.Build(lines, types.DefaultSchemaOptions())
	assert.InDelta(t, 2.0/3.0, schema.Presence(profile, "a"), 1e-9)
	assert.Equal(t, 0.0, schema.Presence(profile, "nonexistent"))
}

func TestBuildKeyOrderDoesNotAffectFieldStats(t *testing.T) {
	a := parseAll(t, []string{`{"a":1,"b":"x"}`})
	b := parseAll(t, []string{`{"b":"x","a":1}`})
	pa := schema.Build(a, types.DefaultSchemaOptions())
	pb := schema.Build(b, types.DefaultSchemaOptions())
	assert.Equal(t, pa.Fields["a"].DominantType, pb.Fields["a"].DominantType)
	assert.Equal(t, pa.Fields["b"].DominantType, pb.Fields["b"].DominantType)
}

// Field-set novelty: an exact field-set seen more than once has novelty 0;
// a unique field-set gets the Jaccard distance to its nearest neighbor.
func TestFieldSetNoveltyRepeatedSetIsZero(t *testing.T) {
	lines := parseAll(t, []string{`{"a":1,"b":2}`, `{"a":3,"b":4}`, `{"a":5,"c":6}`})
	profile := schema.Build(lines, types.DefaultSchemaOptions())

	repeatedKey := types.FieldSetKey([]string{"a", "b"})
	uniqueKey := types.FieldSetKey([]string{"a", "c"})

	assert.Equal(t, 0.0, profile.NearestDistance[repeatedKey])
	assert.InDelta(t, 2.0/3.0, profile.NearestDistance[uniqueKey], 1e-9) // {a,c} vs {a,b}: 1 - 1/3
}

func TestFieldSetNoveltySingleSetIsMaximal(t *testing.T) {
	lines := parseAll(t, []string{`{"a":1}`})
	profile := schema.Build(lines, types.DefaultSchemaOptions())
	key := types.FieldSetKey([]string{"a"})
	assert.Equal(t, 1.0, profile.NearestDistance[key])
}

func TestBuildEmptyInput(t *testing.T) {
	profile := schema.Build(nil, types.DefaultSchemaOptions())
	assert.Equal(t, 0, profile.ObjectRecords)
	assert.Empty(t, profile.Fields)
}
