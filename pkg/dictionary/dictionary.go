/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dictionary.go
Description: Dictionary builder for the loghound anomaly detector. Aggregates
BackRef tokens by exact content, drops low-frequency entries, and produces a
deterministic, frequency-ordered dictionary plus its content-to-rank lookup.
Grounded in the same "aggregate by exact key, then sort deterministically"
shape the fuzzer's crash deduplication uses, generalized to byte content.
*/

package dictionary

import (
	"bytes"
	"sort"

	"github.com/kleascm/loghound/pkg/types"
)

// Build aggregates the BackRef tokens in the stream by exact content,
// drops entries with count < minCount, and ranks the survivors by
// (-count, content) ascending per §4.2. minCount < 1 is treated as 1.
func Build(tokens []types.Token, minCount int) *types.Dictionary {
	if minCount < 1 {
		minCount = 1
	}

	counts := make(map[string]uint64)
	for _, t := range tokens {
		if t.Kind != types.BackRef {
			continue
		}
		counts[string(t.Content)]++
	}

	contents := make([]string, 0, len(counts))
	for content, count := range counts {
		if count >= uint64(minCount) {
			contents = append(contents, content)
		}
	}

	sort.Slice(contents, func(i, j int) bool {
		ci, cj := counts[contents[i]], counts[contents[j]]
		if ci != cj {
			return ci > cj
		}
		return contents[i] < contents[j]
	})

	dict := &types.Dictionary{
		Entries: make([]types.DictEntry, len(contents)),
		RankOf:  make(map[string]uint32, len(contents)),
	}
	for i, content := range contents {
		dict.Entries[i] = types.DictEntry{
			Content: []byte(content),
			Count:   counts[content],
			Rank:    uint32(i),
		}
		dict.RankOf[content] = uint32(i)
	}
	return dict
}

// RankOf looks up the rank of a back-reference's content, returning
// (0, false) if the content never made it into the dictionary (because it
// was dropped by minCount).
func RankOf(dict *types.Dictionary, content []byte) (uint32, bool) {
	if dict == nil {
		return 0, false
	}
	r, ok := dict.RankOf[string(content)]
	return r, ok
}

// verify is a debug helper asserting the sort invariant holds; used only
// by tests, kept here so the invariant and its check travel together.
func verify(dict *types.Dictionary) bool {
	for i := 1; i < len(dict.Entries); i++ {
		a, b := dict.Entries[i-1], dict.Entries[i]
		if a.Count < b.Count {
			return false
		}
		if a.Count == b.Count && bytes.Compare(a.Content, b.Content) > 0 {
			return false
		}
	}
	return true
}
