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
	"context"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/duskdb/duskdb/command"
	"github.com/duskdb/duskdb/common"
	"github.com/duskdb/duskdb/confengine"
	"github.com/duskdb/duskdb/logger"
	"github.com/duskdb/duskdb/server"
	"github.com/duskdb/duskdb/store"
)

// listenPort extracts the numeric port from a "host:port" address for
// INFO's tcp_port field. Falls back to 0 if addr can't be parsed (e.g.
// bound to ":0" before the OS assigns one).
func listenPort(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

// Controller owns the RESP listener, the key-value store behind it, and
// the (optional) admin HTTP server, and wires their lifecycles together.
type Controller struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       Config
	buildInfo common.BuildInfo

	st  *store.Store
	dsp *command.Dispatcher
	ln  *server.Listener
	svr *server.Server
}

func setupLogger(conf *confengine.Config) error {
	var opts logger.Options
	if err := conf.UnpackChild("logger", &opts); err != nil {
		return err
	}

	if opts.Filename == "" {
		opts.Filename = "duskdb.log"
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 10
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 7
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 100
	}

	logger.SetOptions(opts)
	return nil
}

// New builds a Controller from conf: it constructs the shard store and
// command dispatcher, binds the RESP listener (so bind failures surface
// here rather than on Start), and sets up the optional admin server.
// listenOverride, when non-empty, takes precedence over the config
// file's `listen` key — it is how cmd/serve.go's --listen flag reaches
// the bind address.
func New(conf *confengine.Config, buildInfo common.BuildInfo, listenOverride string) (*Controller, error) {
	if err := setupLogger(conf); err != nil {
		return nil, err
	}

	var cfg Config
	if err := conf.UnpackChild("controller", &cfg); err != nil {
		return nil, err
	}
	if listenOverride != "" {
		cfg.Listen = listenOverride
	}

	listenAddr := cfg.GetListen()
	st := store.New(cfg.GetShardCount())
	dsp := command.New(st, command.InfoFields{
		Version: common.Version,
		Port:    listenPort(listenAddr),
	})

	ln, err := server.NewListener(listenAddr, dsp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to bind resp listener")
	}

	svr, err := server.New(conf)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		buildInfo: buildInfo,
		st:        st,
		dsp:       dsp,
		ln:        ln,
		svr:       svr,
	}, nil
}

// Start runs the RESP listener and the admin server (if enabled) in
// background goroutines and returns immediately.
func (c *Controller) Start() error {
	c.setupServer()

	go func() {
		if err := c.ln.Serve(); err != nil {
			logger.Errorf("resp listener stopped: %v", err)
		}
	}()

	if c.svr != nil {
		go func() {
			err := c.svr.ListenAndServe()
			if !errors.Is(err, io.EOF) {
				logger.Errorf("failed to start server: %v", err)
			}
		}()
	}

	go c.recordMetricsLoop()

	return nil
}

func (c *Controller) recordMetricsLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.recordMetrics()

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Controller) recordMetrics() {
	uptime.Set(float64(time.Now().Unix() - common.Started()))
	buildInfo.WithLabelValues(c.buildInfo.Version, c.buildInfo.GitHash, c.buildInfo.Time).Inc()
	keyspaceSize.Set(float64(c.st.Count()))
}

// Reload re-reads controller configuration. The listener's bound address
// and the store's shard count are fixed at process start, matching
// spec.md's non-goal of live topology changes; only the logger is
// actually live-reloadable here.
func (c *Controller) Reload(conf *confengine.Config) error {
	return setupLogger(conf)
}

// Stop closes the RESP listener and, if present, gracefully shuts down
// the admin server, aggregating any errors from either path the same
// way the teacher's pool-rebuild aggregated per-protocol errors.
func (c *Controller) Stop() error {
	var errs error
	if err := c.ln.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.svr != nil {
		if err := c.svr.Shutdown(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	c.cancel()
	return errs
}
