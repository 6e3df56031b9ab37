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
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// shard is one independently-locked partition of the keyspace. Every
// command touches exactly one shard, chosen deterministically by the
// hash of its key, so no lock ordering is ever required across shards.
type shard struct {
	mu   sync.RWMutex
	data map[string]*Value
}

func newShard() *shard {
	return &shard{data: make(map[string]*Value)}
}

// Store is the fixed array of shards that makes up the whole keyspace.
type Store struct {
	shards []*shard
	mask   uint64
}

// New builds a Store with shardCount shards. shardCount must be a power
// of two; callers (cmd/config wiring) are responsible for rounding it.
func New(shardCount int) *Store {
	if shardCount <= 0 {
		shardCount = 1
	}
	s := &Store{
		shards: make([]*shard, shardCount),
		mask:   uint64(shardCount - 1),
	}
	for i := range s.shards {
		s.shards[i] = newShard()
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	h := xxhash.Sum64String(key)
	return s.shards[h&s.mask]
}

// WithRead acquires the read lock of the shard owning key and invokes f,
// under that lock, with the live value (nil if absent or if its TTL has
// passed; an expired key is not deleted here). f must not retain the map
// or value beyond the call.
func (s *Store) WithRead(key string, f func(v *Value)) {
	sh := s.shardFor(key)
	start := time.Now()
	sh.mu.RLock()
	v := sh.data[key]
	if v != nil && v.Expired(time.Now()) {
		// A lazily-expired key still looks absent to this reader; the
		// write path clears it out on next mutation/lookup under the
		// write lock. The core has no background expirer (spec
		// Non-goals), so reads must self-police.
		v = nil
	}
	f(v)
	sh.mu.RUnlock()
	lockHoldSeconds.WithLabelValues("read").Observe(time.Since(start).Seconds())
}

// WithWrite acquires the write lock of the shard owning key and invokes
// f with a handle that can get/set/delete the key in place.
func (s *Store) WithWrite(key string, f func(w *WriteView)) {
	sh := s.shardFor(key)
	start := time.Now()
	sh.mu.Lock()
	defer func() {
		sh.mu.Unlock()
		lockHoldSeconds.WithLabelValues("write").Observe(time.Since(start).Seconds())
	}()

	if v, ok := sh.data[key]; ok && v.Expired(time.Now()) {
		delete(sh.data, key)
	}
	f(&WriteView{sh: sh, key: key})
}

// WriteView is the mutation handle passed to WithWrite's callback.
type WriteView struct {
	sh  *shard
	key string
}

func (w *WriteView) Get() *Value {
	return w.sh.data[w.key]
}

func (w *WriteView) Set(v *Value) {
	w.sh.data[w.key] = v
}

func (w *WriteView) Delete() {
	delete(w.sh.data, w.key)
}

// FlushAll clears every shard, taking each write lock in index order so
// concurrent callers never observe lock inversion.
func (s *Store) FlushAll() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.data = make(map[string]*Value)
		sh.mu.Unlock()
	}
}

// Count sums the live entry count across all shards. Each shard is
// sampled independently under its own read lock, so under concurrent
// mutation this is a lower-bound estimate rather than an atomic
// snapshot — acceptable per the store's documented DBSIZE contract.
func (s *Store) Count() int {
	now := time.Now()
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, v := range sh.data {
			if !v.Expired(now) {
				total++
			}
		}
		sh.mu.RUnlock()
	}
	return total
}

// Keys iterates every shard under its read lock, feeding keys matching
// pattern (a glob: *, ?, and [...] classes) to sink. No shard lock is
// held across the full scan, only for the duration of its own shard.
func (s *Store) Keys(pattern string, sink func(key string)) {
	now := time.Now()
	for _, sh := range s.shards {
		sh.mu.RLock()
		for k, v := range sh.data {
			if v.Expired(now) {
				continue
			}
			if matched, _ := filepath.Match(pattern, k); matched {
				sink(k)
			}
		}
		sh.mu.RUnlock()
	}
}
