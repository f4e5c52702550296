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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pelicanplatform/stsctl/logging"
	"github.com/pelicanplatform/stsctl/param"
)

// EnvPrefix is prepended to every environment variable override, e.g.
// STSCTL_PROJECT_ID for Project.Id.
const EnvPrefix = "STSCTL"

// DefaultUserAgent is sent with every API call unless Transfer.UserAgent
// says otherwise. The binary appends its version at startup.
var DefaultUserAgent = "stsctl"

// DefaultConfigDir returns $HOME/.config/stsctl.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate the home directory")
	}
	return filepath.Join(home, ".config", "stsctl"), nil
}

// SetDefaults installs the built-in defaults into viper.
func SetDefaults() {
	viper.SetDefault(param.Delete_Interval.GetName(), time.Second)
	viper.SetDefault(param.Logging_Level.GetName(), "info")
	viper.SetDefault(param.Transfer_UserAgent.GetName(), DefaultUserAgent)
}

// InitConfig is meant for cobra.OnInitialize; any failure aborts the program.
func InitConfig() {
	if err := InitConfigInternal(); err != nil {
		cobra.CheckErr(err)
	}
}

// InitConfigInternal reads the configuration file and the environment,
// refreshes the param cache, and applies the logging settings.
//
// A missing default config file is fine; a file named with --config must
// exist.
func InitConfigInternal() error {
	viper.SetConfigType("yaml")
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("stsctl")
		if dir, err := DefaultConfigDir(); err == nil {
			viper.AddConfigPath(dir)
		} else {
			log.Warningln("No default configuration directory:", err)
		}
	}

	viper.SetEnvPrefix(strings.ToLower(EnvPrefix))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read the configuration file")
		}
	} else {
		log.Debugln("Using configuration file", viper.ConfigFileUsed())
	}

	if _, err := param.Refresh(); err != nil {
		return err
	}
	if err := SetLogLevel(); err != nil {
		return err
	}
	if err := logging.FlushLogs(true); err != nil {
		return err
	}

	if unknown := validateConfigKeys(); len(unknown) > 0 {
		log.Warningf("Unknown configuration keys found: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// ResetConfig clears all configuration. Intended for tests.
func ResetConfig() {
	param.Reset()
	logging.ResetLogFlush()
}
