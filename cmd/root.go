/***************************************************************
 *
 * Copyright (C) 2026, Pelican Project, Morgridge Institute for Research
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you
 * may not use this file except in compliance with the License.  You may
 * obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 ***************************************************************/

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pelicanplatform/stsctl/config"
	"github.com/pelicanplatform/stsctl/logging"
)

var (
	outputJSON bool

	rootCmd = &cobra.Command{
		Use:   "stsctl",
		Short: "Inspect and manage Storage Transfer Service jobs",
		Long: `stsctl lists, summarizes, creates and deletes Google Cloud Storage
Transfer Service jobs. Reports join each job with its transfer operations,
pick the most recent run and add up the transfer counters.`,
	}
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		// Buffered entries are lost if the failure came before the
		// configuration was read
		_ = logging.FlushLogs(false)
		log.Debugln("Command failed:", err)
	}
	return err
}

// initConfig binds the global flags and loads the configuration. Binding
// happens here rather than in init() so a viper reset between runs does
// not lose the flags.
func initConfig() {
	flags := rootCmd.PersistentFlags()
	for key, flag := range map[string]string{
		"config":              "config",
		"Debug":               "debug",
		"Logging.LogLocation": "log",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			cobra.CheckErr(err)
		}
	}
	config.InitConfig()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.config/stsctl/stsctl.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logs")
	rootCmd.PersistentFlags().StringP("log", "l", "", "Specified log output file")
	// Registered so --help shows it; handleCLI does the actual work
	rootCmd.PersistentFlags().BoolP("version", "", false, "Print the version and exit")
	rootCmd.PersistentFlags().BoolVarP(&outputJSON, "json", "", false, "output results in JSON format")
}
