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
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pelicanplatform/stsctl/param"
	"github.com/pelicanplatform/stsctl/report"
	"github.com/pelicanplatform/stsctl/transfer"
)

var (
	jobListCmd = &cobra.Command{
		Use:   "list [project_id]",
		Short: "List the transfer jobs of a project",
		Long: `List the transfer jobs of a project, with optional filtering by status
and by source or sink bucket. With --delete, every listed job is marked
DELETED afterwards, one request per Delete.Interval.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         jobListMain,
	}

	jobListSourceBucket string
	jobListSinkBucket   string
	jobListDelete       bool
)

func init() {
	jobListCmd.Flags().String("filter-job-status", "", "Only include jobs with these statuses (ENABLED, DISABLED, DELETED)")
	jobListCmd.Flags().StringVar(&jobListSourceBucket, "filter-source-bucket", "", "Only include jobs reading from this bucket")
	jobListCmd.Flags().StringVar(&jobListSinkBucket, "filter-sink-bucket", "", "Only include jobs writing to this bucket")
	jobListCmd.Flags().BoolVar(&jobListDelete, "delete", false, "Mark every listed job as DELETED")
	jobCmd.AddCommand(jobListCmd)
}

func jobListMain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	projectID, err := projectFromArgs(args)
	if err != nil {
		return err
	}
	buckets, err := parseBucketFilters(jobListSourceBucket, jobListSinkBucket)
	if err != nil {
		return err
	}
	commaFlagsListToViperSlice(cmd, map[string]string{
		"filter-job-status": param.Report_JobStatuses.GetName(),
	})

	tc, err := newTransferClient(ctx)
	if err != nil {
		return err
	}
	jobs, err := transfer.MatchJobs(ctx, newFetcher(tc), transfer.Options{
		ProjectID:   projectID,
		JobStatuses: upperAll(param.Report_JobStatuses.GetStringSlice()),
		Buckets:     buckets,
	})
	if err != nil {
		return errors.Wrap(err, "failed to list jobs")
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		if err := report.WriteJobsJSON(out, jobs); err != nil {
			return err
		}
	} else {
		report.WriteJobTable(out, jobs)
	}

	if !jobListDelete || len(jobs) == 0 {
		return nil
	}
	deleted, err := deleteJobs(ctx, tc, projectID, jobNames(jobs))
	if !outputJSON {
		fmt.Fprintf(out, "Deleted %d of %d jobs\n", len(deleted), len(jobs))
	}
	if err != nil {
		return errors.Wrap(err, "failed to delete jobs")
	}
	return nil
}
