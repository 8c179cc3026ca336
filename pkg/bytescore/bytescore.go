/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: bytescore.go
Description: Byte-pattern per-record scorer. Walks the token stream and the
record offsets jointly with a shared cursor, splitting any token that
straddles a record boundary, then turns the accumulated literal/back-ref
byte counts into coverage, rarity, and an anomaly score per §4.3.
*/

package bytescore

import (
	"github.com/kleascm/loghound/pkg/types"
)

// Score computes per-record byte-pattern statistics from a token stream, a
// dictionary, and the record offsets of the buffer the tokens cover.
// Records are returned in ascending index order.
func Score(tokens []types.Token, dict *types.Dictionary, offsets types.RecordOffsets) []types.RecordStats {
	m := offsets.Count()
	stats := make([]types.RecordStats, m)
	for i := range stats {
		stats[i].Index = i
	}
	if m == 0 {
		return stats
	}

	sumRank := make([]float64, m)

	ri := 0
	for _, t := range tokens {
		s, e := t.Pos, t.End()
		for s < e {
			for ri < m && offsets.Ends[ri] <= s {
				ri++
			}
			if ri >= m {
				break
			}
			recStart, recEnd := offsets.Starts[ri], offsets.Ends[ri]
			if e <= recStart {
				// The remainder of this token falls entirely in the
				// newline gap before the next record; nothing to score.
				break
			}
			lo, hi := s, e
			if recStart > lo {
				lo = recStart
			}
			if recEnd < hi {
				hi = recEnd
			}
			if hi > lo {
				overlap := hi - lo
				if t.Kind == types.Literal {
					stats[ri].LiteralBytes += overlap
				} else {
					stats[ri].RefBytes += overlap
					stats[ri].Refs++
					sumRank[ri] += rankFor(dict, t.Content)
				}
			}
			s = hi
		}
	}

	kMinus1 := float64(dict.Len() - 1)
	if kMinus1 < 1 {
		kMinus1 = 1
	}

	for i := range stats {
		recLen := offsets.Len(i)
		if recLen == 0 {
			stats[i].Coverage = 0
			stats[i].Rarity = 1
			stats[i].Score = 1
			continue
		}
		stats[i].Coverage = types.Clamp01(float64(stats[i].RefBytes) / float64(recLen))
		if stats[i].Refs > 0 {
			stats[i].Rarity = types.Clamp01((sumRank[i] / float64(stats[i].Refs)) / kMinus1)
		} else {
			stats[i].Rarity = 1
		}
		stats[i].Score = types.Clamp01(0.5*(1-stats[i].Coverage) + 0.5*stats[i].Rarity)
	}

	return stats
}

// rankFor returns the dictionary rank of a back-reference's content. A
// content that was filtered out of the dictionary by min_count (it occurs
// too rarely to be listed, which is itself a signal of rarity) is treated
// as rarer than any ranked entry: one past the last valid rank.
func rankFor(dict *types.Dictionary, content []byte) float64 {
	if dict != nil {
		if r, ok := dict.RankOf[string(content)]; ok {
			return float64(r)
		}
	}
	return float64(dict.Len())
}
