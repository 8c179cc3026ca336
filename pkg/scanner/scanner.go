/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scanner.go
Description: LZ77 hash-chain match finder. Covers an input buffer exactly once
with Literal and BackRef tokens using the same greedy hash-chain search deflate
uses for compression, but purely for anomaly-detection analysis: nothing here
ever produces compressed output. Deterministic for a given input and options.
*/

package scanner

import (
	"github.com/kleascm/loghound/pkg/types"
)

// hashChain holds the head/prev index arrays used to find prior occurrences
// of a 3-byte sequence, following the classic deflate match-finder layout:
// head is keyed by hash bucket, prev is a window-sized ring keyed by
// position modulo the window so memory stays O(window_size).
type hashChain struct {
	head     []int32
	prev     []int32
	window   int
	hashMask uint32
}

func newHashChain(hashBits, window int) *hashChain {
	return &hashChain{
		head:     fillInt32(make([]int32, 1<<uint(hashBits)), -1),
		prev:     fillInt32(make([]int32, window), -1),
		window:   window,
		hashMask: uint32(1<<uint(hashBits) - 1),
	}
}

func fillInt32(s []int32, v int32) []int32 {
	for i := range s {
		s[i] = v
	}
	return s
}

func (c *hashChain) hashAt(b []byte, p int) uint32 {
	v := uint32(b[p])<<16 | uint32(b[p+1])<<8 | uint32(b[p+2])
	return (v * 2654435761) >> (32 - bitsFor(c.hashMask))
}

func bitsFor(mask uint32) uint {
	bits := uint(0)
	for mask != 0 {
		bits++
		mask >>= 1
	}
	return bits
}

// insert records position p (which must have a valid 3-byte window) in the
// chain for its hash bucket. Called for every position the scanner passes
// over, including positions skipped inside an emitted match, per §4.1's
// table-maintenance requirement.
func (c *hashChain) insert(b []byte, p int) {
	h := c.hashAt(b, p) & c.hashMask
	c.prev[p%c.window] = c.head[h]
	c.head[h] = int32(p)
}

// best walks the chain for position p's hash up to maxChain steps and
// returns the longest match found at or after p-window, capped at
// maxMatch, with ties broken toward the smallest distance (the chain is
// walked most-recent-first, so the first match of a given length wins).
func (c *hashChain) best(b []byte, p, maxMatch, maxChain int) (length, distance int) {
	h := c.hashAt(b, p) & c.hashMask
	cur := c.head[h]
	floor := p - c.window
	limit := len(b)
	if p+maxMatch < limit {
		limit = p + maxMatch
	}
	steps := 0
	for cur != -1 && int(cur) >= floor && steps < maxChain {
		cp := int(cur)
		l := 0
		for p+l < limit && b[cp+l] == b[p+l] {
			l++
		}
		if l > length {
			length = l
			distance = p - cp
		}
		cur = c.prev[cp%c.window]
		steps++
	}
	return length, distance
}

// Scan covers b with a gapless stream of Literal and BackRef tokens using
// the hash-chain search described in §4.1. It never fails: every byte
// stream, including the empty one, has a valid token cover.
func Scan(b []byte, opts types.ScanOptions) []types.Token {
	if opts.HashBits <= 0 {
		opts.HashBits = types.DefaultScanOptions().HashBits
	}
	n := len(b)
	if n == 0 {
		return nil
	}

	tokens := make([]types.Token, 0, n/4+1)
	chain := newHashChain(opts.HashBits, opts.WindowSize)

	// hashable reports whether position p has a full 3-byte window.
	hashable := func(p int) bool { return p <= n-3 }

	p := 0
	for p < n {
		if !hashable(p) {
			tokens = append(tokens, types.Token{Kind: types.Literal, Pos: p, Byte: b[p]})
			p++
			continue
		}

		length, distance := chain.best(b, p, opts.MaxMatch, opts.MaxChainLength)
		chain.insert(b, p)

		if length >= opts.MinMatch {
			tokens = append(tokens, types.Token{
				Kind:     types.BackRef,
				Pos:      p,
				Distance: distance,
				Length:   length,
				Content:  append([]byte(nil), b[p:p+length]...),
			})
			// Every position covered by the match, including those we
			// skip over, still needs to be indexed for future searches.
			for i := p + 1; i < p+length; i++ {
				if hashable(i) {
					chain.insert(b, i)
				}
			}
			p += length
			continue
		}

		tokens = append(tokens, types.Token{Kind: types.Literal, Pos: p, Byte: b[p]})
		p++
	}

	return tokens
}
