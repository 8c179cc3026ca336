/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: novelty.go
Description: Field-set novelty precomputation. For every distinct field-set
observed by the profiler, computes the Jaccard distance to its nearest
neighbor among the other distinct field-sets, exactly when the number of
distinct sets is small and via deterministic MinHash+LSH banding above that,
per the scaling decision recorded in SPEC_FULL.md.
*/

package schema

import (
	"sort"

	"github.com/kleascm/loghound/pkg/types"
)

// exactNoveltyLimit is the distinct field-set count at or below which
// computeNearestDistances uses the exact O(D^2) pairwise comparison.
const exactNoveltyLimit = 5000

const (
	minHashFuncs = 16
	lshBands     = 4
	lshRows      = 4 // minHashFuncs == lshBands * lshRows
)

// computeNearestDistances fills profile.NearestDistance with the per-§4.5
// novelty value for every distinct field-set key: 0 if that exact set was
// observed in more than one record, else the Jaccard distance to its
// nearest *other* distinct field-set (1.0 if there is no other set at all).
func computeNearestDistances(profile *types.SchemaProfile) {
	keys := make([]string, 0, len(profile.FieldSets))
	var singles []string
	for k := range profile.FieldSets {
		keys = append(keys, k)
		if profile.FieldSetCounts[k] > 1 {
			profile.NearestDistance[k] = 0
		} else {
			singles = append(singles, k)
		}
	}
	sort.Strings(keys)
	sort.Strings(singles)

	if len(singles) == 0 {
		return
	}
	if len(singles) == 1 && len(keys) == 1 {
		profile.NearestDistance[singles[0]] = 1.0
		return
	}

	if len(keys) <= exactNoveltyLimit {
		exactNearestDistances(profile, keys, singles)
		return
	}
	approxNearestDistances(profile, keys, singles)
}

func jaccardDistance(a, b []string) float64 {
	sa := make(map[string]struct{}, len(a))
	for _, x := range a {
		sa[x] = struct{}{}
	}
	sb := make(map[string]struct{}, len(b))
	for _, x := range b {
		sb[x] = struct{}{}
	}
	inter := 0
	for x := range sa {
		if _, ok := sb[x]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return 1 - float64(inter)/float64(union)
}

// exactNearestDistances is the straightforward D^2 comparison, used while D
// stays small enough (<= exactNoveltyLimit) that this is cheap and exact.
// Only keys in singles need a distance computed (keys observed more than
// once are already novelty 0); candidates are compared against every other
// distinct key, singleton or not.
func exactNearestDistances(profile *types.SchemaProfile, keys, singles []string) {
	for _, ki := range singles {
		best := 1.0
		fi := profile.FieldSets[ki]
		for _, kj := range keys {
			if kj == ki {
				continue
			}
			d := jaccardDistance(fi, profile.FieldSets[kj])
			if d < best {
				best = d
			}
		}
		profile.NearestDistance[ki] = best
	}
}

// approxNearestDistances handles large D by MinHash-sketching each
// field-set into minHashFuncs signatures, banding the signature into
// lshBands bands of lshRows rows each, and only comparing sets that share
// at least one band bucket. Seeds are fixed so results are deterministic
// across runs for the same input.
func approxNearestDistances(profile *types.SchemaProfile, keys, singles []string) {
	sigs := make(map[string][]uint64, len(keys))
	for _, k := range keys {
		sigs[k] = minHashSignature(profile.FieldSets[k])
	}

	// buckets[band][bucketHash] -> candidate keys sharing that band.
	buckets := make([]map[uint64][]string, lshBands)
	for b := 0; b < lshBands; b++ {
		buckets[b] = make(map[uint64][]string)
	}
	for _, k := range keys {
		sig := sigs[k]
		for b := 0; b < lshBands; b++ {
			h := bandHash(sig[b*lshRows : (b+1)*lshRows])
			buckets[b][h] = append(buckets[b][h], k)
		}
	}

	for _, ki := range singles {
		candidates := make(map[string]struct{})
		sig := sigs[ki]
		for b := 0; b < lshBands; b++ {
			h := bandHash(sig[b*lshRows : (b+1)*lshRows])
			for _, cand := range buckets[b][h] {
				if cand != ki {
					candidates[cand] = struct{}{}
				}
			}
		}

		best := 1.0
		if len(candidates) == 0 {
			// No LSH collision with anything: fall back to comparing
			// against every other set directly rather than reporting a
			// false maximal-novelty result for a merely unlucky hash.
			for _, kj := range keys {
				if kj == ki {
					continue
				}
				d := jaccardDistance(profile.FieldSets[ki], profile.FieldSets[kj])
				if d < best {
					best = d
				}
			}
		} else {
			cands := make([]string, 0, len(candidates))
			for c := range candidates {
				cands = append(cands, c)
			}
			sort.Strings(cands)
			for _, kj := range cands {
				d := jaccardDistance(profile.FieldSets[ki], profile.FieldSets[kj])
				if d < best {
					best = d
				}
			}
		}
		profile.NearestDistance[ki] = best
	}
}

// minHashSignature computes minHashFuncs independent minhash values over
// the set of field names, each using a distinct fixed odd multiplier as its
// hash-family seed so the whole computation is deterministic.
func minHashSignature(fields []string) []uint64 {
	sig := make([]uint64, minHashFuncs)
	for f := 0; f < minHashFuncs; f++ {
		seed := uint64(2*f + 1)
		min := ^uint64(0)
		for _, name := range fields {
			h := fnv64a(name) * seed
			h ^= h >> 33
			if h < min {
				min = h
			}
		}
		sig[f] = min
	}
	return sig
}

// bandHash folds a band's minhash rows into a single bucket key.
func bandHash(rows []uint64) uint64 {
	var h uint64 = 14695981039346656037
	for _, r := range rows {
		h ^= r
		h *= 1099511628211
	}
	return h
}

// fnv64a is a small deterministic string hash (FNV-1a), used as the base
// hash for the minhash family above.
func fnv64a(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
