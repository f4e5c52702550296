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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCountersUnmarshal(t *testing.T) {
	var counters Counters
	require.NoError(t, json.Unmarshal([]byte(`{"bytesCopiedToSink":"9223372036854775807","objectsCopiedToSink":12}`), &counters))
	assert.Equal(t, Counters{CounterBytesCopied: 9223372036854775807, CounterObjectsCopied: 12}, counters)

	err := json.Unmarshal([]byte(`{"bytesCopiedToSink":"lots"}`), &counters)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bytesCopiedToSink")
}

func TestOperationDecode(t *testing.T) {
	var op Operation
	raw := `{
		"name": "transferOperations/op-1",
		"transferJobName": "transferJobs/alpha",
		"status": "IN_PROGRESS",
		"startTime": "2024-05-01T10:00:00Z",
		"transferSpec": {"awsS3DataSource": {"bucketName": "legacy"}, "gcsDataSink": {"bucketName": "archive"}}
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &op))

	assert.True(t, op.InProgress())
	assert.Equal(t, mustTime(t, "2024-05-01T10:00:00Z"), op.Recency())
	_, ok := op.Elapsed()
	assert.False(t, ok)

	source, ok := op.TransferSpec.Source()
	require.True(t, ok)
	assert.Equal(t, "s3://legacy", source.String())
	sink, ok := op.TransferSpec.Sink()
	require.True(t, ok)
	assert.Equal(t, "gs://archive", sink.String())
}

func TestRecencyPrefersEndTime(t *testing.T) {
	op := finishedOp(t, "op", "transferJobs/a", "2024-05-01T10:00:00Z", "2024-05-01T12:30:00Z", nil)
	assert.False(t, op.InProgress())
	assert.Equal(t, mustTime(t, "2024-05-01T12:30:00Z"), op.Recency())
	elapsed, ok := op.Elapsed()
	require.True(t, ok)
	assert.Equal(t, 150*time.Minute, elapsed)
}

func TestMissingDescriptors(t *testing.T) {
	var spec *TransferSpec
	_, ok := spec.Source()
	assert.False(t, ok)
	_, ok = (&TransferSpec{}).Sink()
	assert.False(t, ok)

	both := &TransferSpec{
		GcsDataSource:   &BucketData{BucketName: "primary"},
		AwsS3DataSource: &BucketData{BucketName: "fallback"},
	}
	source, ok := both.Source()
	require.True(t, ok)
	assert.Equal(t, BucketRef{Scheme: SchemeGCS, Name: "primary"}, source)
}

func TestJobYAMLHidesCredentials(t *testing.T) {
	job := Job{
		Name:   "transferJobs/alpha",
		Status: JobEnabled,
		TransferSpec: &TransferSpec{
			AwsS3DataSource: &BucketData{BucketName: "legacy", AwsAccessKey: &AwsAccessKey{AccessKeyID: "AKIA", SecretAccessKey: "secret"}},
		},
	}
	out, err := yaml.Marshal(job)
	require.NoError(t, err)
	assert.Contains(t, string(out), "bucketName: legacy")
	assert.NotContains(t, string(out), "secret")
}

func TestWithoutCredentials(t *testing.T) {
	key := &AwsAccessKey{AccessKeyID: "AKIA", SecretAccessKey: "secret"}
	job := Job{
		Name: "transferJobs/alpha",
		TransferSpec: &TransferSpec{
			AwsS3DataSource: &BucketData{BucketName: "legacy", AwsAccessKey: key},
			GcsDataSink:     &BucketData{BucketName: "archive"},
		},
	}

	safe := job.WithoutCredentials()
	assert.Nil(t, safe.TransferSpec.AwsS3DataSource.AwsAccessKey)
	assert.Equal(t, "legacy", safe.TransferSpec.AwsS3DataSource.BucketName)
	assert.Same(t, job.TransferSpec.GcsDataSink, safe.TransferSpec.GcsDataSink)
	// The original keeps its key
	assert.Same(t, key, job.TransferSpec.AwsS3DataSource.AwsAccessKey)

	assert.Equal(t, Job{Name: "bare"}, Job{Name: "bare"}.WithoutCredentials())
}
