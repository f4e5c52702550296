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
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pelicanplatform/stsctl/param"
	"github.com/pelicanplatform/stsctl/report"
	"github.com/pelicanplatform/stsctl/transfer"
)

var (
	reportCmd = &cobra.Command{
		Use:   "report [project_id]",
		Short: "Summarize the transfer operations of a project",
		Long: `Join every transfer job of a project with its operations, dump each job
with its most recent operation and print totals for the transfer counters.

The project defaults to the Project.Id configuration value. Status filters
take comma separated lists, e.g. --filter-transfer-status SUCCESS,FAILED.
Bucket filters take a bucket name or a gs:// or s3:// URL.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         reportMain,
	}

	reportSourceBucket string
	reportSinkBucket   string
	reportStartDay     int
	reportShowAll      bool
	reportSummarize    string
	reportDelete       bool
)

func init() {
	flags := reportCmd.Flags()
	flags.String("filter-job-status", "", "Only include jobs with these statuses (ENABLED, DISABLED, DELETED)")
	flags.String("filter-transfer-status", "", "Only include operations with these statuses (IN_PROGRESS, SUCCESS, FAILED, ...)")
	flags.StringVar(&reportSourceBucket, "filter-source-bucket", "", "Only include transfers reading from this bucket")
	flags.StringVar(&reportSinkBucket, "filter-sink-bucket", "", "Only include transfers writing to this bucket")
	flags.IntVar(&reportStartDay, "filter-start-day", 0, "Only include operations started on this day of the month (1-31, UTC)")
	flags.BoolVar(&reportShowAll, "show-all-transfers", false, "Dump every operation instead of the most recent one per job")
	flags.StringVar(&reportSummarize, "summarize", "", "Only print the totals, as json or shell variables")
	flags.BoolVar(&reportDelete, "delete", false, "Mark every matched job as DELETED after reporting")
	rootCmd.AddCommand(reportCmd)
}

// validateStartDay rejects days that cannot occur in any month.
func validateStartDay(day int) error {
	if day < 0 || day > 31 {
		return &transfer.ConfigurationError{
			Field:  "filter-start-day",
			Reason: fmt.Sprintf("%d is not a day of the month", day),
		}
	}
	return nil
}

func reportMain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Validate everything before touching the network
	projectID, err := projectFromArgs(args)
	if err != nil {
		return err
	}
	mode, err := report.ParseMode(reportSummarize)
	if err != nil {
		return err
	}
	if err := validateStartDay(reportStartDay); err != nil {
		return err
	}
	buckets, err := parseBucketFilters(reportSourceBucket, reportSinkBucket)
	if err != nil {
		return err
	}
	commaFlagsListToViperSlice(cmd, map[string]string{
		"filter-job-status":      param.Report_JobStatuses.GetName(),
		"filter-transfer-status": param.Report_TransferStatuses.GetName(),
	})

	tc, err := newTransferClient(ctx)
	if err != nil {
		return err
	}

	opts := transfer.Options{
		ProjectID:        projectID,
		JobStatuses:      upperAll(param.Report_JobStatuses.GetStringSlice()),
		TransferStatuses: upperAll(param.Report_TransferStatuses.GetStringSlice()),
		Buckets:          buckets,
		Reconciler: transfer.Reconciler{
			OnlyMostRecent: !reportShowAll,
			StartDay:       reportStartDay,
		},
	}
	log.Debugf("Building transfer report for project %s", projectID)

	printer := report.NewPrinter(cmd.OutOrStdout(), mode, reportShowAll)
	result, err := transfer.Run(ctx, newFetcher(tc), opts, printer.Visit)
	if err != nil {
		return errors.Wrap(err, "failed to build the transfer report")
	}
	if err := printer.Summary(result.Aggregate); err != nil {
		return errors.Wrap(err, "failed to print the summary")
	}

	if !reportDelete {
		return nil
	}
	deleted, err := deleteJobs(ctx, tc, projectID, jobNames(result.Jobs))
	if printErr := printer.Deleted(deleted); printErr != nil && err == nil {
		err = printErr
	}
	if err != nil {
		return errors.Wrapf(err, "failed to delete matched jobs (%d of %d deleted)", len(deleted), len(result.Jobs))
	}
	return nil
}
