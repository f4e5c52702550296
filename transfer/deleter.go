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
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type (
	// JobPatcher changes the status of a job.
	JobPatcher interface {
		UpdateJobStatus(ctx context.Context, projectID, jobName, status string) (*Job, error)
	}

	// Pacer blocks until the next request may be sent. *rate.Limiter
	// satisfies it.
	Pacer interface {
		Wait(ctx context.Context) error
	}

	// Deleter marks jobs as deleted, waiting on Pacer before every request
	// so the provider's write quota is respected.
	Deleter struct {
		Patcher JobPatcher
		Pacer   Pacer
		// OnDeleted, when set, is called after each successful patch.
		OnDeleted func(Job)
	}
)

// NewPacer allows one request immediately and one more per interval after
// that. A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// DeleteJobs transitions every named job to DELETED, in order. It stops at
// the first failure and returns the jobs deleted so far.
func (d *Deleter) DeleteJobs(ctx context.Context, projectID string, names []string) ([]Job, error) {
	deleted := make([]Job, 0, len(names))
	for _, name := range names {
		if err := d.Pacer.Wait(ctx); err != nil {
			return deleted, errors.Wrap(err, "interrupted while waiting to delete the next job")
		}
		job, err := d.Patcher.UpdateJobStatus(ctx, projectID, name, JobDeleted)
		if err != nil {
			return deleted, asTransportError("delete transfer job "+name, err)
		}
		log.Infof("Marked transfer job %s as deleted", name)
		deleted = append(deleted, *job)
		if d.OnDeleted != nil {
			d.OnDeleted(*job)
		}
	}
	return deleted, nil
}
