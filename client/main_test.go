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

package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	"github.com/pelicanplatform/stsctl/test_utils"
	"github.com/pelicanplatform/stsctl/transfer"
)

func newTestClient(t *testing.T, mock *test_utils.TransferServiceMockup) *Client {
	settings := Settings{Endpoint: mock.Endpoint(), DisableAuth: true, UserAgent: "stsctl-test"}
	c, err := NewClient(context.Background(), settings.ClientOptions()...)
	require.NoError(t, err)
	return c
}

func TestListJobsPagination(t *testing.T) {
	t.Cleanup(test_utils.SetupTestLogging(t))
	mock := test_utils.NewTransferServiceMockup(t)
	mock.JobPages = [][]map[string]interface{}{
		{
			{
				"name":        "transferJobs/alpha",
				"description": "nightly",
				"projectId":   "demo",
				"status":      "ENABLED",
				"schedule": map[string]interface{}{
					"scheduleStartDate": map[string]interface{}{"year": 2024, "month": 5, "day": 1},
					"startTimeOfDay":    map[string]interface{}{"hours": 9, "minutes": 15},
				},
				"transferSpec": map[string]interface{}{
					"awsS3DataSource": map[string]interface{}{"bucketName": "legacy"},
					"gcsDataSink":     map[string]interface{}{"bucketName": "archive"},
				},
			},
		},
		{},
		{
			{"name": "transferJobs/beta", "status": "DISABLED"},
		},
	}
	c := newTestClient(t, mock)

	fetcher := &transfer.Fetcher{Pager: c, PageSize: 50}
	it := fetcher.Jobs(context.Background(), transfer.JobFilter{ProjectID: "demo", JobStatuses: []string{"ENABLED", "DISABLED"}})

	var jobs []transfer.Job
	for {
		job, err := it.Next()
		if err == iterator.Done {
			break
		}
		require.NoError(t, err)
		jobs = append(jobs, *job)
	}

	require.Len(t, jobs, 2)
	assert.Equal(t, "transferJobs/alpha", jobs[0].Name)
	assert.Equal(t, &transfer.Date{Year: 2024, Month: 5, Day: 1}, jobs[0].Schedule.ScheduleStartDate)
	source, ok := jobs[0].TransferSpec.Source()
	require.True(t, ok)
	assert.Equal(t, transfer.BucketRef{Scheme: transfer.SchemeS3, Name: "legacy"}, source)
	assert.Equal(t, "DISABLED", jobs[1].Status)

	requests := mock.RequestsFor(http.MethodGet, "/v1/transferJobs")
	require.Len(t, requests, 3)
	assert.JSONEq(t, `{"projectId":"demo","jobStatuses":["ENABLED","DISABLED"]}`, requests[0].Filter)
	assert.Equal(t, "", requests[0].PageToken)
	assert.Equal(t, "1", requests[1].PageToken)
	assert.Equal(t, "2", requests[2].PageToken)
	assert.Equal(t, "50", requests[0].PageSize)
}

func TestListWithoutCollectionKey(t *testing.T) {
	mock := test_utils.NewTransferServiceMockup(t)
	c := newTestClient(t, mock)

	jobs, next, err := c.ListJobs(context.Background(), transfer.JobFilter{ProjectID: "demo"}, 0, "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Empty(t, next)

	ops, next, err := c.ListOperations(context.Background(), transfer.OperationFilter{ProjectID: "demo"}, 0, "")
	require.NoError(t, err)
	assert.Empty(t, ops)
	assert.Empty(t, next)
}

func TestListOperationsDecodesMetadata(t *testing.T) {
	mock := test_utils.NewTransferServiceMockup(t)
	mock.OperationPages = [][]map[string]interface{}{{
		{
			"@type":           "type.googleapis.com/google.storagetransfer.v1.TransferOperation",
			"name":            "transferOperations/op-1",
			"projectId":       "demo",
			"transferJobName": "transferJobs/alpha",
			"status":          "SUCCESS",
			"startTime":       "2024-05-01T10:00:00Z",
			"endTime":         "2024-05-01T11:00:00.5Z",
			"counters": map[string]interface{}{
				"bytesCopiedToSink":    "1536",
				"bytesFoundFromSource": "2048",
				"objectsCopiedToSink":  3,
			},
			"transferSpec": map[string]interface{}{
				"gcsDataSource": map[string]interface{}{"bucketName": "alpha"},
				"gcsDataSink":   map[string]interface{}{"bucketName": "archive"},
			},
		},
		{
			"name":            "transferOperations/op-2",
			"transferJobName": "transferJobs/alpha",
			"status":          "IN_PROGRESS",
			"startTime":       "2024-05-02T10:00:00Z",
		},
	}}
	c := newTestClient(t, mock)

	filter := transfer.OperationFilter{ProjectID: "demo", TransferStatuses: []string{"SUCCESS", "IN_PROGRESS"}}
	ops, next, err := c.ListOperations(context.Background(), filter, 0, "")
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, ops, 2)

	assert.Equal(t, "transferOperations/op-1", ops[0].Name)
	assert.Equal(t, transfer.Counters{"bytesCopiedToSink": 1536, "bytesFoundFromSource": 2048, "objectsCopiedToSink": 3}, ops[0].Counters)
	require.NotNil(t, ops[0].EndTime)
	elapsed, ok := ops[0].Elapsed()
	require.True(t, ok)
	assert.Equal(t, time.Hour+500*time.Millisecond, elapsed)
	assert.False(t, ops[0].InProgress())
	assert.True(t, ops[1].InProgress())

	requests := mock.RequestsFor(http.MethodGet, "/v1/transferOperations")
	require.Len(t, requests, 1)
	assert.JSONEq(t, `{"projectId":"demo","transferStatuses":["SUCCESS","IN_PROGRESS"]}`, requests[0].Filter)
}

func TestUpdateJobStatus(t *testing.T) {
	mock := test_utils.NewTransferServiceMockup(t)
	c := newTestClient(t, mock)

	job, err := c.UpdateJobStatus(context.Background(), "demo", "transferJobs/alpha", transfer.JobDeleted)
	require.NoError(t, err)
	assert.Equal(t, "transferJobs/alpha", job.Name)
	assert.Equal(t, transfer.JobDeleted, job.Status)

	patches := mock.RequestsFor(http.MethodPatch, "/v1/transferJobs/alpha")
	require.Len(t, patches, 1)
	body := patches[0].Body
	assert.Equal(t, "demo", body["projectId"])
	assert.Equal(t, "status", body["updateTransferJobFieldMask"])
	assert.Equal(t, map[string]interface{}{"status": "DELETED"}, body["transferJob"])
}

func TestCreateJob(t *testing.T) {
	mock := test_utils.NewTransferServiceMockup(t)
	c := newTestClient(t, mock)

	job, err := transfer.NewJob(transfer.CreateRequest{
		ProjectID:       "demo",
		Source:          transfer.BucketRef{Scheme: transfer.SchemeS3, Name: "legacy"},
		Sink:            transfer.BucketRef{Scheme: transfer.SchemeGCS, Name: "archive"},
		Description:     "import",
		Kickoff:         time.Date(2024, 5, 1, 10, 45, 0, 0, time.UTC),
		ExcludePrefixes: []string{"tmp/"},
		AwsAccessKey:    &transfer.AwsAccessKey{AccessKeyID: "AKIA", SecretAccessKey: "secret"},
	})
	require.NoError(t, err)

	created, err := c.CreateJob(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, job.Name, created.Name)
	assert.Equal(t, "2024-05-01T00:00:00Z", created.CreationTime)
	assert.Equal(t, job.Schedule, created.Schedule)

	posts := mock.RequestsFor(http.MethodPost, "/v1/transferJobs")
	require.Len(t, posts, 1)
	body := posts[0].Body
	assert.Equal(t, "ENABLED", body["status"])
	assert.Equal(t, "import fired at 2024-05-01T10:45:00+00:00", body["description"])
	spec := body["transferSpec"].(map[string]interface{})
	source := spec["awsS3DataSource"].(map[string]interface{})
	assert.Equal(t, "legacy", source["bucketName"])
	assert.Equal(t, map[string]interface{}{"accessKeyId": "AKIA", "secretAccessKey": "secret"}, source["awsAccessKey"])
	conditions := spec["objectConditions"].(map[string]interface{})
	assert.Equal(t, []interface{}{"tmp/"}, conditions["excludePrefixes"])
}

func TestAPIErrorsBecomeTransportErrors(t *testing.T) {
	mock := test_utils.NewTransferServiceMockup(t)
	mock.FailWith = http.StatusForbidden
	c := newTestClient(t, mock)

	_, _, err := c.ListJobs(context.Background(), transfer.JobFilter{ProjectID: "demo"}, 0, "")
	var transportErr *transfer.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "list transfer jobs", transportErr.Op)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))
	assert.Contains(t, err.Error(), "lacks permission")

	_, err = c.UpdateJobStatus(context.Background(), "demo", "transferJobs/alpha", transfer.JobDeleted)
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "update transfer job transferJobs/alpha", transportErr.Op)

	assert.Equal(t, 0, StatusCode(assert.AnError))
}

func TestSettingsCredentials(t *testing.T) {
	mock := test_utils.NewTransferServiceMockup(t)
	settings := Settings{Endpoint: mock.Endpoint(), AccessToken: "ya29.static", UserAgent: "stsctl/1.2.3"}
	c, err := NewClient(context.Background(), settings.ClientOptions()...)
	require.NoError(t, err)

	_, _, err = c.ListJobs(context.Background(), transfer.JobFilter{ProjectID: "demo"}, 0, "")
	require.NoError(t, err)

	requests := mock.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "Bearer ya29.static", requests[0].Authorization)
	assert.Contains(t, requests[0].UserAgent, "stsctl/1.2.3")
}

func TestClientOptions(t *testing.T) {
	assert.Empty(t, Settings{}.ClientOptions())
	assert.Len(t, Settings{Endpoint: "http://localhost/", CredentialsFile: "creds.json", UserAgent: "x"}.ClientOptions(), 3)
	// A static token replaces the credentials file
	assert.Len(t, Settings{CredentialsFile: "creds.json", AccessToken: "token"}.ClientOptions(), 1)
}
