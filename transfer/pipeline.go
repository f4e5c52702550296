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

package transfer

import (
	"context"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
)

type (
	// Options selects what a report covers.
	Options struct {
		ProjectID        string
		JobStatuses      []string
		TransferStatuses []string
		Buckets          BucketFilter
		Reconciler       Reconciler
	}

	// VisitFunc is called for every matched job, in provider order, right
	// after the job is reconciled.
	VisitFunc func(r Reconciled) error

	// Result is the outcome of a full pass.
	Result struct {
		Aggregate *Aggregate
		// Jobs are the matched jobs, in provider order.
		Jobs []Job
	}
)

// MatchJobs lists the project's jobs and keeps those passing the bucket filter.
func MatchJobs(ctx context.Context, fetcher *Fetcher, opts Options) ([]Job, error) {
	var matched []Job
	it := fetcher.Jobs(ctx, JobFilter{ProjectID: opts.ProjectID, JobStatuses: opts.JobStatuses})
	for {
		job, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if !opts.Buckets.MatchesJob(job) {
			log.Debugf("Skipping job %s: bucket filter does not match", job.Name)
			continue
		}
		matched = append(matched, *job)
	}
	return matched, nil
}

// Run performs one synchronous pass: list and filter jobs, list and group
// their operations, reconcile each job, hand it to visit and fold it into
// the aggregate. Any error aborts the pass.
func Run(ctx context.Context, fetcher *Fetcher, opts Options, visit VisitFunc) (*Result, error) {
	result := &Result{Aggregate: NewAggregate()}

	jobs, err := MatchJobs(ctx, fetcher, opts)
	if err != nil {
		return nil, err
	}
	result.Jobs = jobs
	if len(jobs) == 0 {
		log.Debugf("No transfer jobs in project %s matched the filters", opts.ProjectID)
		return result, nil
	}

	wanted := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		wanted[job.Name] = struct{}{}
	}

	groups := &JobGroups{}
	it := fetcher.Operations(ctx, OperationFilter{ProjectID: opts.ProjectID, TransferStatuses: opts.TransferStatuses})
	for {
		op, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if _, ok := wanted[op.TransferJobName]; !ok {
			continue
		}
		if !opts.Buckets.MatchesOperation(op) {
			continue
		}
		groups.Add(*op)
	}

	for _, job := range jobs {
		reconciled, err := opts.Reconciler.Reconcile(job, groups.For(job.Name))
		if err != nil {
			return nil, err
		}
		if visit != nil {
			if err := visit(reconciled); err != nil {
				return nil, err
			}
		}
		result.Aggregate.AddJob(reconciled)
	}
	return result, nil
}
