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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoPager(t *testing.T) *fakePager {
	return &fakePager{
		jobPages: [][]Job{
			{{Name: "transferJobs/alpha", Status: JobEnabled, TransferSpec: gcsSpec("alpha", "archive")}},
			{{Name: "transferJobs/beta", Status: JobEnabled, TransferSpec: gcsSpec("beta", "archive")}},
		},
		opPages: [][]Operation{
			{
				withSpec(finishedOp(t, "alpha-1", "transferJobs/alpha", "2024-05-01T10:00:00Z", "2024-05-01T11:00:00Z",
					Counters{CounterBytesFound: 100, CounterBytesCopied: 100}), gcsSpec("alpha", "archive")),
				withSpec(finishedOp(t, "beta-1", "transferJobs/beta", "2024-05-01T10:00:00Z", "2024-05-01T11:00:00Z",
					Counters{CounterBytesFound: 999, CounterBytesCopied: 999}), gcsSpec("beta", "archive")),
			},
			{
				withSpec(finishedOp(t, "alpha-2", "transferJobs/alpha", "2024-05-02T10:00:00Z", "2024-05-02T11:00:00Z",
					Counters{CounterBytesFound: 200, CounterBytesCopied: 150}), gcsSpec("alpha", "archive")),
				withSpec(finishedOp(t, "orphan", "transferJobs/gone", "2024-05-02T10:00:00Z", "2024-05-02T11:00:00Z",
					Counters{CounterBytesFound: 5}), gcsSpec("alpha", "archive")),
			},
		},
	}
}

func withSpec(op Operation, spec *TransferSpec) Operation {
	op.TransferSpec = spec
	return op
}

func TestRunDemoProjectWithSourceFilter(t *testing.T) {
	pager := demoPager(t)
	source, err := ParseBucketFilter("gs://alpha")
	require.NoError(t, err)

	opts := Options{
		ProjectID:        "demo",
		JobStatuses:      []string{JobEnabled},
		TransferStatuses: []string{StatusSuccess},
		Buckets:          BucketFilter{Source: source},
	}

	var visited []Reconciled
	result, err := Run(context.Background(), &Fetcher{Pager: pager}, opts, func(r Reconciled) error {
		visited = append(visited, r)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, visited, 1)
	assert.Equal(t, "transferJobs/alpha", visited[0].Job.Name)
	assert.Equal(t, "alpha-2", visited[0].Representative.Name)
	assert.Len(t, visited[0].Operations, 2)

	require.Len(t, result.Jobs, 1)
	assert.Equal(t, 1, result.Aggregate.JobCount)
	assert.Equal(t, 1, result.Aggregate.TransferCount)
	assert.Equal(t, int64(200), result.Aggregate.Counters[CounterBytesFound])
	assert.Equal(t, int64(150), result.Aggregate.Counters[CounterBytesCopied])

	assert.Equal(t, []string{JobEnabled}, pager.jobFilter[0].JobStatuses)
	assert.Equal(t, "demo", pager.opFilter[0].ProjectID)
	assert.Equal(t, []string{StatusSuccess}, pager.opFilter[0].TransferStatuses)
}

func TestRunWithoutMatchesSkipsOperations(t *testing.T) {
	pager := demoPager(t)
	opts := Options{ProjectID: "demo", Buckets: BucketFilter{Sink: BucketRef{Name: "nowhere"}}}

	result, err := Run(context.Background(), &Fetcher{Pager: pager}, opts, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Jobs)
	assert.Equal(t, 0, result.Aggregate.JobCount)
	assert.Empty(t, pager.opTokens)
}

func TestRunKeepsJobsWithoutOperationsOnStartDay(t *testing.T) {
	pager := demoPager(t)
	opts := Options{ProjectID: "demo", Reconciler: Reconciler{OnlyMostRecent: true, StartDay: 2}}

	var visited []Reconciled
	result, err := Run(context.Background(), &Fetcher{Pager: pager}, opts, func(r Reconciled) error {
		visited = append(visited, r)
		return nil
	})
	require.NoError(t, err)

	// beta only ran on the 1st; it is still reported, with no operation
	require.Len(t, visited, 2)
	assert.Equal(t, "alpha-2", visited[0].Representative.Name)
	assert.Equal(t, "transferJobs/beta", visited[1].Job.Name)
	assert.Nil(t, visited[1].Representative)
	assert.Empty(t, visited[1].Operations)

	assert.Equal(t, 2, result.Aggregate.JobCount)
	assert.Equal(t, 1, result.Aggregate.TransferCount)
	assert.Equal(t, int64(200), result.Aggregate.Counters[CounterBytesFound])
}

func TestRunAbortsOnDataIntegrityError(t *testing.T) {
	pager := &fakePager{
		jobPages: [][]Job{{{Name: "transferJobs/a"}, {Name: "transferJobs/b"}}},
		opPages: [][]Operation{{
			finishedOp(t, "a-1", "transferJobs/a", "2024-05-01T10:00:00Z", "2024-05-01T11:00:00Z", nil),
			runningOp(t, "b-1", "transferJobs/b", "2024-05-01T10:00:00Z"),
			runningOp(t, "b-2", "transferJobs/b", "2024-05-01T12:00:00Z"),
		}},
	}

	var visited []string
	_, err := Run(context.Background(), &Fetcher{Pager: pager}, Options{ProjectID: "demo"}, func(r Reconciled) error {
		visited = append(visited, r.Job.Name)
		return nil
	})
	assert.ErrorIs(t, err, ErrDataIntegrity)
	// Output already produced for earlier jobs stays produced
	assert.Equal(t, []string{"transferJobs/a"}, visited)
}

func TestRunPropagatesVisitorAndTransportErrors(t *testing.T) {
	pager := demoPager(t)
	stop := errors.New("stdout closed")
	_, err := Run(context.Background(), &Fetcher{Pager: pager}, Options{ProjectID: "demo"}, func(Reconciled) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)

	pager.opErr = errors.New("503")
	_, err = Run(context.Background(), &Fetcher{Pager: pager}, Options{ProjectID: "demo"}, nil)
	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}
