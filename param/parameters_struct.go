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

package param

import (
	"time"
)

// Config mirrors the configuration file layout.
type Config struct {
	Debug  bool `mapstructure:"debug" yaml:"Debug"`
	Delete struct {
		Interval time.Duration `mapstructure:"interval" yaml:"Interval"`
	} `mapstructure:"delete" yaml:"Delete"`
	Logging struct {
		Level       string `mapstructure:"level" yaml:"Level"`
		LogLocation string `mapstructure:"loglocation" yaml:"LogLocation"`
	} `mapstructure:"logging" yaml:"Logging"`
	Project struct {
		Id string `mapstructure:"id" yaml:"Id"`
	} `mapstructure:"project" yaml:"Project"`
	Report struct {
		JobStatuses      []string `mapstructure:"jobstatuses" yaml:"JobStatuses"`
		TransferStatuses []string `mapstructure:"transferstatuses" yaml:"TransferStatuses"`
	} `mapstructure:"report" yaml:"Report"`
	Transfer struct {
		AccessToken     string `mapstructure:"accesstoken" yaml:"AccessToken"`
		CredentialsFile string `mapstructure:"credentialsfile" yaml:"CredentialsFile"`
		DisableAuth     bool   `mapstructure:"disableauth" yaml:"DisableAuth"`
		Endpoint        string `mapstructure:"endpoint" yaml:"Endpoint"`
		PageSize        int    `mapstructure:"pagesize" yaml:"PageSize"`
		UserAgent       string `mapstructure:"useragent" yaml:"UserAgent"`
	} `mapstructure:"transfer" yaml:"Transfer"`
}
