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
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/pelicanplatform/stsctl/client"
	"github.com/pelicanplatform/stsctl/param"
	"github.com/pelicanplatform/stsctl/transfer"
)

// Given an input map of flag-->viper config, convert any comma-delineated
// input lists and store them as a string slice with Viper
func commaFlagsListToViperSlice(cmd *cobra.Command, flags map[string]string) {
	for flagName, viperName := range flags {
		if flagValue, _ := cmd.Flags().GetString(flagName); flagValue != "" {
			trimmedValues := []string{}
			for _, value := range strings.Split(flagValue, ",") {
				if trimmed := strings.TrimSpace(value); trimmed != "" {
					trimmedValues = append(trimmedValues, trimmed)
				}
			}
			if err := param.Set(viperName, trimmedValues); err != nil {
				cobra.CheckErr(err)
			}
		}
	}
}

// upperAll normalizes status filters; the provider only accepts upper case.
func upperAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, strings.ToUpper(value))
	}
	return result
}

// projectFromArgs takes the project from the first positional argument,
// falling back to Project.Id.
func projectFromArgs(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if project := param.Project_Id.GetString(); project != "" {
		return project, nil
	}
	return "", &transfer.ConfigurationError{
		Field:  "project",
		Reason: "pass a project id or set " + param.Project_Id.GetName(),
	}
}

// parseBucketFilters builds a bucket filter from the --filter-*-bucket flags.
func parseBucketFilters(source, sink string) (transfer.BucketFilter, error) {
	var filter transfer.BucketFilter
	var err error
	if filter.Source, err = transfer.ParseBucketFilter(source); err != nil {
		return filter, err
	}
	if filter.Sink, err = transfer.ParseBucketFilter(sink); err != nil {
		return filter, err
	}
	return filter, nil
}

// newTransferClient builds an API client from the Transfer.* parameters.
func newTransferClient(ctx context.Context) (*client.Client, error) {
	settings := client.Settings{
		Endpoint:        param.Transfer_Endpoint.GetString(),
		CredentialsFile: param.Transfer_CredentialsFile.GetString(),
		AccessToken:     param.Transfer_AccessToken.GetString(),
		UserAgent:       param.Transfer_UserAgent.GetString(),
		DisableAuth:     param.Transfer_DisableAuth.GetBool(),
	}
	return client.NewClient(ctx, settings.ClientOptions()...)
}

func newFetcher(pager transfer.Pager) *transfer.Fetcher {
	return &transfer.Fetcher{Pager: pager, PageSize: param.Transfer_PageSize.GetInt()}
}

// deleteJobs marks the named jobs as deleted, pacing the requests by
// Delete.Interval and showing progress on a terminal.
func deleteJobs(ctx context.Context, patcher transfer.JobPatcher, projectID string, names []string) ([]transfer.Job, error) {
	if len(names) == 0 {
		return nil, nil
	}
	progress := newDeleteProgress(ctx, len(names))
	defer progress.shutdown()

	deleter := &transfer.Deleter{
		Patcher:   patcher,
		Pacer:     transfer.NewPacer(param.Delete_Interval.GetDuration()),
		OnDeleted: progress.increment,
	}
	return deleter.DeleteJobs(ctx, projectID, names)
}

func jobNames(jobs []transfer.Job) []string {
	return lo.Map(jobs, func(job transfer.Job, _ int) string { return job.Name })
}
