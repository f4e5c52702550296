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
	"fmt"
	"time"

	"github.com/google/uuid"
)

const jobNamePrefix = "transferJobs/"

// CreateRequest collects everything needed to build a new transfer job.
type CreateRequest struct {
	ProjectID   string
	Source      BucketRef
	Sink        BucketRef
	Description string
	// Daily jobs repeat every day at the kickoff time of day; otherwise the
	// job runs once on the kickoff date.
	Daily           bool
	Kickoff         time.Time
	IncludePrefixes []string
	ExcludePrefixes []string
	// MinElapsedSinceModification skips objects modified more recently
	// than this. Zero disables the condition.
	MinElapsedSinceModification time.Duration
	// AwsAccessKey is required when Source is an S3 bucket.
	AwsAccessKey *AwsAccessKey
}

// ParseTimeOfDay parses an HH:MM wall-clock time.
func ParseTimeOfDay(raw string) (time.Time, error) {
	tod, err := time.Parse("15:04", raw)
	if err != nil {
		return time.Time{}, &ConfigurationError{Field: "start time", Reason: fmt.Sprintf("%q is not HH:MM", raw)}
	}
	return tod, nil
}

// Kickoff computes when a new job should first run. Daily jobs start today
// at timeOfDay, or tomorrow if that moment has passed; one-off jobs start
// minutesFromNow after now.
func Kickoff(now time.Time, daily bool, timeOfDay time.Time, minutesFromNow int) time.Time {
	now = now.UTC()
	if !daily {
		return now.Add(time.Duration(minutesFromNow) * time.Minute)
	}
	kickoff := time.Date(now.Year(), now.Month(), now.Day(), timeOfDay.Hour(), timeOfDay.Minute(), 0, 0, time.UTC)
	if kickoff.Before(now) {
		kickoff = kickoff.AddDate(0, 0, 1)
	}
	return kickoff
}

func dateOf(t time.Time) *Date {
	return &Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// NewJob builds the job described by req, with a fresh unique name.
func NewJob(req CreateRequest) (Job, error) {
	spec := &TransferSpec{}

	switch req.Source.Scheme {
	case SchemeGCS:
		spec.GcsDataSource = &BucketData{BucketName: req.Source.Name}
	case SchemeS3:
		if req.AwsAccessKey == nil {
			return Job{}, &ConfigurationError{Field: "source", Reason: "an S3 source needs AWS credentials"}
		}
		spec.AwsS3DataSource = &BucketData{BucketName: req.Source.Name, AwsAccessKey: req.AwsAccessKey}
	default:
		return Job{}, &ConfigurationError{Field: "source", Reason: "unknown bucket type " + req.Source.Scheme}
	}

	switch req.Sink.Scheme {
	case SchemeGCS:
		spec.GcsDataSink = &BucketData{BucketName: req.Sink.Name}
	case SchemeS3:
		return Job{}, &ConfigurationError{Field: "sink", Reason: "the transfer service only writes to gs:// buckets"}
	default:
		return Job{}, &ConfigurationError{Field: "sink", Reason: "unknown bucket type " + req.Sink.Scheme}
	}

	if len(req.IncludePrefixes) > 0 || len(req.ExcludePrefixes) > 0 || req.MinElapsedSinceModification > 0 {
		spec.ObjectConditions = &ObjectConditions{
			IncludePrefixes: req.IncludePrefixes,
			ExcludePrefixes: req.ExcludePrefixes,
		}
		if req.MinElapsedSinceModification > 0 {
			spec.ObjectConditions.MinTimeElapsedSinceLastModification = fmt.Sprintf("%ds", int64(req.MinElapsedSinceModification.Seconds()))
		}
	}

	kickoff := req.Kickoff.UTC()
	schedule := &Schedule{ScheduleStartDate: dateOf(kickoff)}
	if req.Daily {
		schedule.StartTimeOfDay = &TimeOfDay{Hours: kickoff.Hour(), Minutes: kickoff.Minute(), Seconds: kickoff.Second()}
	} else {
		// A one-off job starts and ends on the same day.
		schedule.ScheduleEndDate = dateOf(kickoff)
	}

	return Job{
		Name:         jobNamePrefix + uuid.NewString(),
		Description:  fmt.Sprintf("%s fired at %s", req.Description, kickoff.Format("2006-01-02T15:04:05+00:00")),
		ProjectID:    req.ProjectID,
		Status:       JobEnabled,
		Schedule:     schedule,
		TransferSpec: spec,
	}, nil
}
