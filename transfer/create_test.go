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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKickoff(t *testing.T) {
	now := mustTime(t, "2024-05-01T10:30:15Z")

	later, err := ParseTimeOfDay("12:00")
	require.NoError(t, err)
	assert.Equal(t, mustTime(t, "2024-05-01T12:00:00Z"), Kickoff(now, true, later, 0))

	earlier, err := ParseTimeOfDay("09:15")
	require.NoError(t, err)
	assert.Equal(t, mustTime(t, "2024-05-02T09:15:00Z"), Kickoff(now, true, earlier, 0))

	assert.Equal(t, mustTime(t, "2024-05-01T10:45:15Z"), Kickoff(now, false, time.Time{}, 15))

	_, err = ParseTimeOfDay("25:99")
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewJobDaily(t *testing.T) {
	job, err := NewJob(CreateRequest{
		ProjectID:                   "demo",
		Source:                      BucketRef{Scheme: SchemeGCS, Name: "alpha"},
		Sink:                        BucketRef{Scheme: SchemeGCS, Name: "archive"},
		Description:                 "nightly",
		Daily:                       true,
		Kickoff:                     mustTime(t, "2024-05-02T09:15:00Z"),
		IncludePrefixes:             []string{"logs/"},
		MinElapsedSinceModification: 90 * time.Second,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(job.Name, "transferJobs/"))
	assert.Equal(t, "nightly fired at 2024-05-02T09:15:00+00:00", job.Description)
	assert.Equal(t, JobEnabled, job.Status)
	assert.Equal(t, "demo", job.ProjectID)
	assert.Equal(t, &Date{Year: 2024, Month: 5, Day: 2}, job.Schedule.ScheduleStartDate)
	assert.Nil(t, job.Schedule.ScheduleEndDate)
	assert.Equal(t, &TimeOfDay{Hours: 9, Minutes: 15}, job.Schedule.StartTimeOfDay)
	assert.Equal(t, "alpha", job.TransferSpec.GcsDataSource.BucketName)
	assert.Equal(t, "archive", job.TransferSpec.GcsDataSink.BucketName)
	require.NotNil(t, job.TransferSpec.ObjectConditions)
	assert.Equal(t, []string{"logs/"}, job.TransferSpec.ObjectConditions.IncludePrefixes)
	assert.Equal(t, "90s", job.TransferSpec.ObjectConditions.MinTimeElapsedSinceLastModification)

	other, err := NewJob(CreateRequest{
		Source: BucketRef{Scheme: SchemeGCS, Name: "alpha"},
		Sink:   BucketRef{Scheme: SchemeGCS, Name: "archive"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, job.Name, other.Name)
}

func TestNewJobOnce(t *testing.T) {
	job, err := NewJob(CreateRequest{
		Source:       BucketRef{Scheme: SchemeS3, Name: "legacy"},
		Sink:         BucketRef{Scheme: SchemeGCS, Name: "archive"},
		Kickoff:      mustTime(t, "2024-05-01T10:45:00Z"),
		AwsAccessKey: &AwsAccessKey{AccessKeyID: "AKIA", SecretAccessKey: "secret"},
	})
	require.NoError(t, err)

	assert.Equal(t, job.Schedule.ScheduleStartDate, job.Schedule.ScheduleEndDate)
	assert.Nil(t, job.Schedule.StartTimeOfDay)
	assert.Nil(t, job.TransferSpec.ObjectConditions)
	require.NotNil(t, job.TransferSpec.AwsS3DataSource)
	assert.Equal(t, "AKIA", job.TransferSpec.AwsS3DataSource.AwsAccessKey.AccessKeyID)
}

func TestNewJobRejectsBadBuckets(t *testing.T) {
	var cfgErr *ConfigurationError

	_, err := NewJob(CreateRequest{
		Source: BucketRef{Scheme: SchemeS3, Name: "legacy"},
		Sink:   BucketRef{Scheme: SchemeGCS, Name: "archive"},
	})
	assert.ErrorAs(t, err, &cfgErr)

	_, err = NewJob(CreateRequest{
		Source: BucketRef{Scheme: SchemeGCS, Name: "alpha"},
		Sink:   BucketRef{Scheme: SchemeS3, Name: "legacy"},
	})
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "sink", cfgErr.Field)
}
