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
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"
)

// fakePager serves canned pages; page tokens are the index of the next page.
type fakePager struct {
	jobPages  [][]Job
	opPages   [][]Operation
	jobErr    error
	opErr     error
	jobTokens []string
	opTokens  []string
	jobFilter []JobFilter
	opFilter  []OperationFilter
	pageSizes []int
}

func page(token string, total int) (int, string) {
	idx := 0
	if token != "" {
		idx, _ = strconv.Atoi(token)
	}
	next := ""
	if idx+1 < total {
		next = strconv.Itoa(idx + 1)
	}
	return idx, next
}

func (f *fakePager) ListJobs(_ context.Context, filter JobFilter, pageSize int, pageToken string) ([]Job, string, error) {
	f.jobTokens = append(f.jobTokens, pageToken)
	f.jobFilter = append(f.jobFilter, filter)
	f.pageSizes = append(f.pageSizes, pageSize)
	if f.jobErr != nil {
		return nil, "", f.jobErr
	}
	if len(f.jobPages) == 0 {
		return nil, "", nil
	}
	idx, next := page(pageToken, len(f.jobPages))
	return f.jobPages[idx], next, nil
}

func (f *fakePager) ListOperations(_ context.Context, filter OperationFilter, pageSize int, pageToken string) ([]Operation, string, error) {
	f.opTokens = append(f.opTokens, pageToken)
	f.opFilter = append(f.opFilter, filter)
	if f.opErr != nil {
		return nil, "", f.opErr
	}
	if len(f.opPages) == 0 {
		return nil, "", nil
	}
	idx, next := page(pageToken, len(f.opPages))
	return f.opPages[idx], next, nil
}

func mustTime(t *testing.T, raw string) time.Time {
	parsed, err := time.Parse(time.RFC3339, raw)
	require.NoError(t, err)
	return parsed
}

func timePtr(t *testing.T, raw string) *time.Time {
	parsed := mustTime(t, raw)
	return &parsed
}

func gcsSpec(source, sink string) *TransferSpec {
	return &TransferSpec{
		GcsDataSource: &BucketData{BucketName: source},
		GcsDataSink:   &BucketData{BucketName: sink},
	}
}

func finishedOp(t *testing.T, name, job, start, end string, counters Counters) Operation {
	return Operation{
		Name:            name,
		TransferJobName: job,
		Status:          StatusSuccess,
		StartTime:       mustTime(t, start),
		EndTime:         timePtr(t, end),
		Counters:        counters,
	}
}

func runningOp(t *testing.T, name, job, start string) Operation {
	return Operation{
		Name:            name,
		TransferJobName: job,
		Status:          StatusInProgress,
		StartTime:       mustTime(t, start),
	}
}

// collectOperations drains the iterator.
func collectOperations(it *OperationIterator) ([]Operation, error) {
	var result []Operation
	for {
		op, err := it.Next()
		if err == iterator.Done {
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		result = append(result, *op)
	}
}
