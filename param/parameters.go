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
	"strings"
	"time"

	"github.com/spf13/viper"
)

type StringParam struct {
	name string
}

type StringSliceParam struct {
	name string
}

type BoolParam struct {
	name string
}

type IntParam struct {
	name string
}

type DurationParam struct {
	name string
}

var (
	Logging_Level            = StringParam{"Logging.Level"}
	Logging_LogLocation      = StringParam{"Logging.LogLocation"}
	Project_Id               = StringParam{"Project.Id"}
	Transfer_AccessToken     = StringParam{"Transfer.AccessToken"}
	Transfer_CredentialsFile = StringParam{"Transfer.CredentialsFile"}
	Transfer_Endpoint        = StringParam{"Transfer.Endpoint"}
	Transfer_UserAgent       = StringParam{"Transfer.UserAgent"}
)

var (
	Report_JobStatuses      = StringSliceParam{"Report.JobStatuses"}
	Report_TransferStatuses = StringSliceParam{"Report.TransferStatuses"}
)

var (
	Debug                = BoolParam{"Debug"}
	Transfer_DisableAuth = BoolParam{"Transfer.DisableAuth"}
)

var (
	Transfer_PageSize = IntParam{"Transfer.PageSize"}
)

var (
	Delete_Interval = DurationParam{"Delete.Interval"}
)

// allParameterNames is kept sorted.
var allParameterNames = []string{
	"Debug",
	"Delete.Interval",
	"Logging.Level",
	"Logging.LogLocation",
	"Project.Id",
	"Report.JobStatuses",
	"Report.TransferStatuses",
	"Transfer.AccessToken",
	"Transfer.CredentialsFile",
	"Transfer.DisableAuth",
	"Transfer.Endpoint",
	"Transfer.PageSize",
	"Transfer.UserAgent",
}

// AllParameterNames returns a copy of the known configuration keys.
func AllParameterNames() []string {
	return append([]string(nil), allParameterNames...)
}

// paramNameToEnvVar converts a parameter name (e.g., "Transfer.PageSize") to
// its environment variable (e.g., "STSCTL_TRANSFER_PAGESIZE").
func paramNameToEnvVar(paramName string) string {
	return "STSCTL_" + strings.ToUpper(strings.ReplaceAll(paramName, ".", "_"))
}

func (sP StringParam) GetString() string {
	config := getOrCreateConfig()
	switch sP.name {
	case "Logging.Level":
		return config.Logging.Level
	case "Logging.LogLocation":
		return config.Logging.LogLocation
	case "Project.Id":
		return config.Project.Id
	case "Transfer.AccessToken":
		return config.Transfer.AccessToken
	case "Transfer.CredentialsFile":
		return config.Transfer.CredentialsFile
	case "Transfer.Endpoint":
		return config.Transfer.Endpoint
	case "Transfer.UserAgent":
		return config.Transfer.UserAgent
	}
	return ""
}

func (sP StringParam) GetName() string {
	return sP.name
}

func (sP StringParam) IsSet() bool {
	return viper.IsSet(sP.name)
}

func (sP StringParam) GetEnvVarName() string {
	return paramNameToEnvVar(sP.name)
}

func (slP StringSliceParam) GetStringSlice() []string {
	config := getOrCreateConfig()
	switch slP.name {
	case "Report.JobStatuses":
		return config.Report.JobStatuses
	case "Report.TransferStatuses":
		return config.Report.TransferStatuses
	}
	return nil
}

func (slP StringSliceParam) GetName() string {
	return slP.name
}

func (slP StringSliceParam) IsSet() bool {
	return viper.IsSet(slP.name)
}

func (slP StringSliceParam) GetEnvVarName() string {
	return paramNameToEnvVar(slP.name)
}

func (bP BoolParam) GetBool() bool {
	config := getOrCreateConfig()
	switch bP.name {
	case "Debug":
		return config.Debug
	case "Transfer.DisableAuth":
		return config.Transfer.DisableAuth
	}
	return false
}

func (bP BoolParam) GetName() string {
	return bP.name
}

func (bP BoolParam) IsSet() bool {
	return viper.IsSet(bP.name)
}

func (bP BoolParam) GetEnvVarName() string {
	return paramNameToEnvVar(bP.name)
}

func (iP IntParam) GetInt() int {
	config := getOrCreateConfig()
	switch iP.name {
	case "Transfer.PageSize":
		return config.Transfer.PageSize
	}
	return 0
}

func (iP IntParam) GetName() string {
	return iP.name
}

func (iP IntParam) IsSet() bool {
	return viper.IsSet(iP.name)
}

func (iP IntParam) GetEnvVarName() string {
	return paramNameToEnvVar(iP.name)
}

func (dP DurationParam) GetDuration() time.Duration {
	config := getOrCreateConfig()
	switch dP.name {
	case "Delete.Interval":
		return config.Delete.Interval
	}
	return 0
}

func (dP DurationParam) GetName() string {
	return dP.name
}

func (dP DurationParam) IsSet() bool {
	return viper.IsSet(dP.name)
}

func (dP DurationParam) GetEnvVarName() string {
	return paramNameToEnvVar(dP.name)
}
