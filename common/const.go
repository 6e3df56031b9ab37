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

package common

const (
	// App is the program name, used as the Prometheus metric namespace.
	App = "duskdb"

	// Version is the redis_version that INFO reports on the wire.
	Version = "7.4.0-duskdb"

	// ReadBlockSize is the chunk size used when draining a connection's
	// socket into its read buffer. Kept modest so a slow client can't
	// force an oversized single read.
	ReadBlockSize = 4096

	// DefaultShardCount is the recommended shard count from spec.md §3:
	// a fixed power-of-two split of the keyspace.
	DefaultShardCount = 64

	// DefaultAddr is the default bind address (spec.md §6).
	DefaultAddr = "127.0.0.1:6379"
)
