// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"github.com/google/btree"
)

// zitem is a single (score, member) pair ordered first by score then by
// member lexicographically, matching ZRANGE's ascending contract.
type zitem struct {
	score  float64
	member string
}

func lessZItem(a, b zitem) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.member < b.member
}

// ZMember is a (member, score) pair returned from a range query.
type ZMember struct {
	Member string
	Score  float64
}

// ZSet is a sorted set: unique members paired with float64 scores,
// ordered for range queries by (score, member). A btree.BTreeG keeps
// the ordering; a side map gives O(1) score lookup/update by member,
// mirroring how most sorted-set implementations pair a skiplist (or
// here, a B-tree) with a hash index rather than re-deriving order by
// full scan on every ZADD.
type ZSet struct {
	tree    *btree.BTreeG[zitem]
	members map[string]float64
}

func NewZSet() *ZSet {
	return &ZSet{
		tree:    btree.NewG(32, lessZItem),
		members: make(map[string]float64),
	}
}

func (z *ZSet) Card() int {
	return len(z.members)
}

// Add inserts or updates member with score. Returns true if member was
// newly inserted, false if it already existed and was re-scored.
func (z *ZSet) Add(member string, score float64) bool {
	if old, ok := z.members[member]; ok {
		if old == score {
			return false
		}
		z.tree.Delete(zitem{score: old, member: member})
		z.tree.ReplaceOrInsert(zitem{score: score, member: member})
		z.members[member] = score
		return false
	}
	z.tree.ReplaceOrInsert(zitem{score: score, member: member})
	z.members[member] = score
	return true
}

func (z *ZSet) Score(member string) (float64, bool) {
	s, ok := z.members[member]
	return s, ok
}

func (z *ZSet) Remove(member string) bool {
	score, ok := z.members[member]
	if !ok {
		return false
	}
	delete(z.members, member)
	z.tree.Delete(zitem{score: score, member: member})
	return true
}

// Rank returns member's 0-based ascending rank.
func (z *ZSet) Rank(member string) (int, bool) {
	score, ok := z.members[member]
	if !ok {
		return 0, false
	}
	rank := 0
	z.tree.AscendLessThan(zitem{score: score, member: member}, func(zitem) bool {
		rank++
		return true
	})
	return rank, true
}

// Range returns the members at ascending positions [start, stop]
// (inclusive, already-normalized indices).
func (z *ZSet) Range(start, stop int) []ZMember {
	n := z.tree.Len()
	if start > stop || start >= n {
		return nil
	}
	if stop >= n {
		stop = n - 1
	}
	if start < 0 {
		start = 0
	}

	out := make([]ZMember, 0, stop-start+1)
	i := 0
	z.tree.Ascend(func(it zitem) bool {
		if i > stop {
			return false
		}
		if i >= start {
			out = append(out, ZMember{Member: it.member, Score: it.score})
		}
		i++
		return true
	})
	return out
}
