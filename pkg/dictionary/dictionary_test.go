package dictionary

import (
	"testing"

	"github.com/kleascm/loghound/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backRef(content string) types.Token {
	return types.Token{Kind: types.BackRef, Content: []byte(content)}
}

func TestBuildOrdersByCountThenContent(t *testing.T) {
	tokens := []types.Token{
		backRef("aa"), backRef("aa"), backRef("aa"),
		backRef("bb"), backRef("bb"), backRef("bb"),
		backRef("cc"),
	}
	dict := Build(tokens, 1)
	require.True(t, verify(dict))
	require.Len(t, dict.Entries, 3)
	// "aa" and "bb" tie at count 3; content ascending breaks the tie.
	assert.Equal(t, "aa", string(dict.Entries[0].Content))
	assert.Equal(t, "bb", string(dict.Entries[1].Content))
	assert.Equal(t, "cc", string(dict.Entries[2].Content))
}

func TestBuildFiltersByMinCount(t *testing.T) {
	tokens := []types.Token{backRef("aa"), backRef("aa"), backRef("bb")}
	dict := Build(tokens, 2)
	require.Len(t, dict.Entries, 1)
	assert.Equal(t, "aa", string(dict.Entries[0].Content))
}

func TestBuildMinCountOneKeepsEveryDistinctContent(t *testing.T) {
	tokens := []types.Token{backRef("aa"), backRef("bb"), backRef("cc")}
	dict := Build(tokens, 0) // <1 clamps to 1
	require.Len(t, dict.Entries, 3)
}

func TestBuildRanksArePermutation(t *testing.T) {
	tokens := []types.Token{backRef("a"), backRef("bb"), backRef("bb"), backRef("ccc")}
	dict := Build(tokens, 1)
	seen := make(map[uint32]bool)
	for _, e := range dict.Entries {
		seen[e.Rank] = true
	}
	for i := 0; i < len(dict.Entries); i++ {
		assert.True(t, seen[uint32(i)])
	}
}

func TestBuildIgnoresLiteralTokens(t *testing.T) {
	tokens := []types.Token{{Kind: types.Literal, Byte: 'x'}}
	dict := Build(tokens, 1)
	assert.Equal(t, 0, dict.Len())
}

func TestRankOfMissingContent(t *testing.T) {
	dict := Build([]types.Token{backRef("aa"), backRef("aa")}, 2)
	r, ok := RankOf(dict, []byte("zz"))
	assert.False(t, ok)
	assert.Equal(t, uint32(0), r)

	r, ok = RankOf(dict, []byte("aa"))
	assert.True(t, ok)
	assert.Equal(t, uint32(0), r)
}

func TestRankOfNilDictionary(t *testing.T) {
	r, ok := RankOf(nil, []byte("aa"))
	assert.False(t, ok)
	assert.Equal(t, uint32(0), r)
}

func TestDictionaryLenNil(t *testing.T) {
	var dict *types.Dictionary
	assert.Equal(t, 0, dict.Len())
}
