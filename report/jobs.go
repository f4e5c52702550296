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

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pelicanplatform/stsctl/transfer"
)

// WriteJobTable prints one row per job: name, status, source, sink and
// schedule start.
func WriteJobTable(out io.Writer, jobs []transfer.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No transfer jobs found")
		return
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Name", "Status", "Source", "Sink", "Starts", "Description"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, job := range jobs {
		table.Append([]string{
			job.Name,
			job.Status,
			bucketOrDash(job.TransferSpec.Source()),
			bucketOrDash(job.TransferSpec.Sink()),
			scheduleStart(job.Schedule),
			job.Description,
		})
	}
	table.Render()
	fmt.Fprintf(out, "Total jobs: %d\n", len(jobs))
}

func bucketOrDash(ref transfer.BucketRef, ok bool) string {
	if !ok {
		return "-"
	}
	return ref.String()
}

func scheduleStart(schedule *transfer.Schedule) string {
	if schedule == nil || schedule.ScheduleStartDate == nil {
		return "-"
	}
	date := schedule.ScheduleStartDate
	start := fmt.Sprintf("%04d-%02d-%02d", date.Year, date.Month, date.Day)
	if tod := schedule.StartTimeOfDay; tod != nil {
		start += fmt.Sprintf(" %02d:%02d", tod.Hours, tod.Minutes)
	}
	return start
}

// WriteJobsJSON prints the jobs as an indented JSON array.
func WriteJobsJSON(out io.Writer, jobs []transfer.Job) error {
	safe := make([]transfer.Job, 0, len(jobs))
	for _, job := range jobs {
		safe = append(safe, job.WithoutCredentials())
	}
	jobs = safe
	buf, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(out, string(buf))
	return err
}

// WriteJob prints a single job as YAML, or as JSON when asJSON is set.
// Access keys are never printed.
func WriteJob(out io.Writer, job transfer.Job, asJSON bool) error {
	job = job.WithoutCredentials()
	if asJSON {
		buf, err := json.MarshalIndent(job, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal JSON")
		}
		_, err = fmt.Fprintln(out, string(buf))
		return err
	}
	buf, err := yaml.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "failed to encode job as YAML")
	}
	_, err = out.Write(buf)
	return err
}
