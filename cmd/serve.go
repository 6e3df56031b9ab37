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

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/duskdb/duskdb/common"
	"github.com/duskdb/duskdb/confengine"
	"github.com/duskdb/duskdb/controller"
	"github.com/duskdb/duskdb/internal/sigs"
	"github.com/duskdb/duskdb/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the duskdb server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := confengine.LoadConfigPath(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}

		ctr, err := controller.New(cfg, common.GetBuildInfo(), listenAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create controller: %v\n", err)
			os.Exit(1)
		}
		if err := ctr.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start controller: %v\n", err)
			os.Exit(1)
		}

		var reloadTotal int
		for {
			select {
			case <-sigs.Terminate():
				if err := ctr.Stop(); err != nil {
					logger.Errorf("error during shutdown: %v", err)
				}
				return

			case <-sigs.Reload():
				reloadTotal++

				cfg, err := confengine.LoadConfigPath(configPath)
				if err != nil {
					fmt.Fprintf(os.Stderr, "failed to load config (count=%d): %v\n", reloadTotal, err)
					continue
				}

				start := time.Now()
				if err := ctr.Reload(cfg); err != nil {
					logger.Errorf("failed to reload config: %v", err)
				}
				logger.Infof("reload (count=%d) take %s", reloadTotal, time.Since(start))
			}
		}
	},
	Example: "# duskdb serve --config duskdb.yaml --listen 0.0.0.0:6399",
}

var (
	configPath string
	listenAddr string
)

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "duskdb.yaml", "Configuration file path")
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address, overrides the config file's listen key")
	rootCmd.AddCommand(serveCmd)
}
