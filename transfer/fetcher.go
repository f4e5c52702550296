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
	"encoding/json"

	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
)

type (
	// JobFilter is the structured filter understood by the job listing.
	JobFilter struct {
		ProjectID   string   `json:"projectId"`
		JobNames    []string `json:"jobNames,omitempty"`
		JobStatuses []string `json:"jobStatuses,omitempty"`
	}

	// OperationFilter is the structured filter understood by the operation
	// listing.
	OperationFilter struct {
		ProjectID        string   `json:"projectId"`
		JobNames         []string `json:"jobNames,omitempty"`
		TransferStatuses []string `json:"transferStatuses,omitempty"`
	}

	// JobPager returns one page of jobs and the token for the next page. An
	// empty token means there are no more pages.
	JobPager interface {
		ListJobs(ctx context.Context, filter JobFilter, pageSize int, pageToken string) ([]Job, string, error)
	}

	OperationPager interface {
		ListOperations(ctx context.Context, filter OperationFilter, pageSize int, pageToken string) ([]Operation, string, error)
	}

	// Pager is implemented by the provider client.
	Pager interface {
		JobPager
		OperationPager
	}

	// Fetcher hands out fresh iterators over a Pager; every call starts from
	// the first page.
	Fetcher struct {
		Pager    Pager
		PageSize int
	}

	// JobIterator iterates over jobs, fetching pages lazily.
	JobIterator struct {
		ctx      context.Context
		pager    JobPager
		filter   JobFilter
		pageInfo *iterator.PageInfo
		nextFunc func() error
		items    []Job
	}

	// OperationIterator iterates over operations, fetching pages lazily.
	OperationIterator struct {
		ctx      context.Context
		pager    OperationPager
		filter   OperationFilter
		pageInfo *iterator.PageInfo
		nextFunc func() error
		items    []Operation
	}
)

func (f JobFilter) Encode() (string, error) {
	buf, err := json.Marshal(f)
	return string(buf), err
}

func (f OperationFilter) Encode() (string, error) {
	buf, err := json.Marshal(f)
	return string(buf), err
}

func (f *Fetcher) Jobs(ctx context.Context, filter JobFilter) *JobIterator {
	it := NewJobIterator(ctx, f.Pager, filter)
	it.pageInfo.MaxSize = f.PageSize
	return it
}

func (f *Fetcher) Operations(ctx context.Context, filter OperationFilter) *OperationIterator {
	it := NewOperationIterator(ctx, f.Pager, filter)
	it.pageInfo.MaxSize = f.PageSize
	return it
}

func NewJobIterator(ctx context.Context, pager JobPager, filter JobFilter) *JobIterator {
	it := &JobIterator{
		ctx:    ctx,
		pager:  pager,
		filter: filter,
	}
	it.pageInfo, it.nextFunc = iterator.NewPageInfo(
		it.fetch,
		func() int { return len(it.items) },
		func() interface{} { b := it.items; it.items = nil; return b })
	return it
}

// PageInfo supports pagination. See the google.golang.org/api/iterator package for details.
func (it *JobIterator) PageInfo() *iterator.PageInfo { return it.pageInfo }

// Next returns the next job. Its second return value is iterator.Done once
// the listing is exhausted.
func (it *JobIterator) Next() (*Job, error) {
	if err := it.nextFunc(); err != nil {
		return nil, err
	}
	item := it.items[0]
	it.items = it.items[1:]
	return &item, nil
}

func (it *JobIterator) fetch(pageSize int, pageToken string) (string, error) {
	jobs, next, err := it.pager.ListJobs(it.ctx, it.filter, pageSize, pageToken)
	if err != nil {
		return "", asTransportError("list transfer jobs", err)
	}
	it.items = append(it.items, jobs...)
	return next, nil
}

func NewOperationIterator(ctx context.Context, pager OperationPager, filter OperationFilter) *OperationIterator {
	it := &OperationIterator{
		ctx:    ctx,
		pager:  pager,
		filter: filter,
	}
	it.pageInfo, it.nextFunc = iterator.NewPageInfo(
		it.fetch,
		func() int { return len(it.items) },
		func() interface{} { b := it.items; it.items = nil; return b })
	return it
}

// PageInfo supports pagination. See the google.golang.org/api/iterator package for details.
func (it *OperationIterator) PageInfo() *iterator.PageInfo { return it.pageInfo }

// Next returns the next operation. Its second return value is
// iterator.Done once the listing is exhausted.
func (it *OperationIterator) Next() (*Operation, error) {
	if err := it.nextFunc(); err != nil {
		return nil, err
	}
	item := it.items[0]
	it.items = it.items[1:]
	return &item, nil
}

func (it *OperationIterator) fetch(pageSize int, pageToken string) (string, error) {
	ops, next, err := it.pager.ListOperations(it.ctx, it.filter, pageSize, pageToken)
	if err != nil {
		return "", asTransportError("list transfer operations", err)
	}
	it.items = append(it.items, ops...)
	return next, nil
}

func asTransportError(op string, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return newTransportError(op, err)
}
