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

package conn

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/duskdb/duskdb/common"
)

var (
	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: common.App,
		Name:      "connections_active",
		Help:      "number of currently open client connections",
	})

	commandsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "commands_processed_total",
		Help:      "total number of commands dispatched across all connections",
	})

	bytesRead = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "bytes_read_total",
		Help:      "total bytes read from client sockets",
	})

	bytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "bytes_written_total",
		Help:      "total bytes written to client sockets",
	})
)
