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
	"time"
)

type (
	// Reconciler picks the operation that represents each job.
	Reconciler struct {
		// OnlyMostRecent drops every operation but the representative one
		// from the result.
		OnlyMostRecent bool
		// StartDay, when non-zero, keeps only operations that started on
		// this day of the month (UTC).
		StartDay int
	}

	// Reconciled is the outcome for one job.
	Reconciled struct {
		Job Job
		// Representative is nil when no operation survived the filters.
		Representative *Operation
		Operations     []Operation
		// Elapsed is set when the representative has both a start and an end.
		Elapsed    time.Duration
		HasElapsed bool
	}

	// JobGroups holds operations keyed by their job name, in the order the
	// job names were first seen.
	JobGroups struct {
		order  []string
		byName map[string][]Operation
	}
)

// GroupByJob buckets operations by transferJobName, keeping provider order
// within each bucket.
func GroupByJob(ops []Operation) *JobGroups {
	groups := &JobGroups{byName: make(map[string][]Operation)}
	for _, op := range ops {
		groups.Add(op)
	}
	return groups
}

func (g *JobGroups) Add(op Operation) {
	if g.byName == nil {
		g.byName = make(map[string][]Operation)
	}
	if _, ok := g.byName[op.TransferJobName]; !ok {
		g.order = append(g.order, op.TransferJobName)
	}
	g.byName[op.TransferJobName] = append(g.byName[op.TransferJobName], op)
}

func (g *JobGroups) For(jobName string) []Operation {
	return g.byName[jobName]
}

func (g *JobGroups) JobNames() []string {
	return g.order
}

// Reconcile selects the representative operation of job among ops. The
// operation with the latest recency wins, where recency is the end time or,
// for the single allowed unfinished operation, the start time. A second
// unfinished operation is a data integrity error.
func (r Reconciler) Reconcile(job Job, ops []Operation) (Reconciled, error) {
	result := Reconciled{Job: job}

	var (
		candidates []Operation
		inProgress *Operation
		best       = -1
		bestKey    time.Time
	)
	for _, op := range ops {
		if r.StartDay != 0 && op.StartTime.UTC().Day() != r.StartDay {
			continue
		}
		candidates = append(candidates, op)
	}

	for idx := range candidates {
		op := &candidates[idx]
		if op.InProgress() {
			if inProgress != nil {
				return result, &MultipleInProgressError{JobName: job.Name, First: inProgress.Name, Second: op.Name}
			}
			inProgress = op
		}
		key := op.Recency()
		if best < 0 || key.After(bestKey) {
			best = idx
			bestKey = key
		}
	}

	if best < 0 {
		return result, nil
	}

	rep := candidates[best]
	result.Representative = &rep
	result.Elapsed, result.HasElapsed = rep.Elapsed()
	if r.OnlyMostRecent {
		result.Operations = []Operation{rep}
	} else {
		result.Operations = candidates
	}
	return result, nil
}
