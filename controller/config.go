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

package controller

import (
	"github.com/duskdb/duskdb/common"
)

// Config is the `controller` section (`listen`, `shardCount`) the
// controller unpacks from confengine.Config. Everything else (the
// admin server, logging) lives in its own sub-config per the teacher's
// convention of one UnpackChild call per concern.
type Config struct {
	Listen     string `config:"listen"`
	ShardCount int    `config:"shardCount"`
}

func (c Config) GetListen() string {
	if c.Listen == "" {
		return common.DefaultAddr
	}
	return c.Listen
}

// GetShardCount returns the configured shard count rounded up to a power
// of two, or DefaultShardCount when unset.
func (c Config) GetShardCount() int {
	if c.ShardCount <= 0 {
		return common.DefaultShardCount
	}
	n := 1
	for n < c.ShardCount {
		n <<= 1
	}
	return n
}
