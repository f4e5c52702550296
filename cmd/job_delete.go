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
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pelicanplatform/stsctl/report"
)

var (
	jobDeleteCmd = &cobra.Command{
		Use:   "delete <project_id> <job_name>...",
		Short: "Mark transfer jobs as deleted",
		Long: `Mark the named transfer jobs as DELETED. Names may omit the
"transferJobs/" prefix. Requests are spaced by Delete.Interval so large
batches stay under the API write quota.`,
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE:         jobDeleteMain,
	}
)

func init() {
	jobCmd.AddCommand(jobDeleteCmd)
}

// qualifyJobName adds the transferJobs/ prefix when it is missing.
func qualifyJobName(name string) string {
	if strings.HasPrefix(name, "transferJobs/") {
		return name
	}
	return "transferJobs/" + name
}

func jobDeleteMain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	projectID := args[0]
	names := make([]string, 0, len(args)-1)
	for _, name := range args[1:] {
		names = append(names, qualifyJobName(name))
	}

	tc, err := newTransferClient(ctx)
	if err != nil {
		return err
	}
	deleted, deleteErr := deleteJobs(ctx, tc, projectID, names)

	out := cmd.OutOrStdout()
	if outputJSON {
		if err := report.WriteJobsJSON(out, deleted); err != nil {
			return err
		}
	} else {
		report.WriteJobTable(out, deleted)
	}
	if deleteErr != nil {
		return errors.Wrapf(deleteErr, "failed to delete jobs (%d of %d deleted)", len(deleted), len(names))
	}
	return nil
}
