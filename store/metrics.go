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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/duskdb/duskdb/common"
)

// lockHoldSeconds tracks how long callers hold a shard's mutex, split by
// whether the hold was a read or a write lock. A fast-growing tail here
// points at a command doing too much work under lock (e.g. a large
// ZRANGE) rather than at contention itself.
var lockHoldSeconds = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: common.App,
		Name:      "shard_lock_hold_seconds",
		Help:      "Time spent holding a shard lock, by lock mode",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"mode"},
)
