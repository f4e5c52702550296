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
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Job statuses as reported by the Storage Transfer Service.
const (
	JobEnabled  = "ENABLED"
	JobDisabled = "DISABLED"
	JobDeleted  = "DELETED"
)

// Operation statuses.
const (
	StatusInProgress = "IN_PROGRESS"
	StatusPaused     = "PAUSED"
	StatusSuccess    = "SUCCESS"
	StatusFailed     = "FAILED"
	StatusAborted    = "ABORTED"
	StatusQueued     = "QUEUED"
	StatusSuspending = "SUSPENDING"
)

// Well-known counter names. Counters are accumulated generically, so these
// only matter for the derived percentages and the text summary.
const (
	CounterBytesFound     = "bytesFoundFromSource"
	CounterBytesCopied    = "bytesCopiedToSink"
	CounterBytesFailed    = "bytesFromSourceFailed"
	CounterBytesSkipped   = "bytesFromSourceSkippedBySync"
	CounterObjectsFound   = "objectsFoundFromSource"
	CounterObjectsCopied  = "objectsCopiedToSink"
	CounterObjectsFailed  = "objectsFromSourceFailed"
	CounterObjectsSkipped = "objectsFromSourceSkippedBySync"
)

type (
	// BucketData describes one end of a transfer, either a GCS or an S3 bucket.
	BucketData struct {
		BucketName   string        `json:"bucketName" yaml:"bucketName"`
		Path         string        `json:"path,omitempty" yaml:"path,omitempty"`
		AwsAccessKey *AwsAccessKey `json:"awsAccessKey,omitempty" yaml:"-"`
	}

	AwsAccessKey struct {
		AccessKeyID     string `json:"accessKeyId"`
		SecretAccessKey string `json:"secretAccessKey"`
	}

	ObjectConditions struct {
		IncludePrefixes                     []string `json:"includePrefixes,omitempty" yaml:"includePrefixes,omitempty"`
		ExcludePrefixes                     []string `json:"excludePrefixes,omitempty" yaml:"excludePrefixes,omitempty"`
		MinTimeElapsedSinceLastModification string   `json:"minTimeElapsedSinceLastModification,omitempty" yaml:"minTimeElapsedSinceLastModification,omitempty"`
	}

	TransferOptions struct {
		OverwriteObjectsAlreadyExistingInSink bool `json:"overwriteObjectsAlreadyExistingInSink,omitempty" yaml:"overwriteObjectsAlreadyExistingInSink,omitempty"`
		DeleteObjectsUniqueInSink             bool `json:"deleteObjectsUniqueInSink,omitempty" yaml:"deleteObjectsUniqueInSink,omitempty"`
		DeleteObjectsFromSourceAfterTransfer  bool `json:"deleteObjectsFromSourceAfterTransfer,omitempty" yaml:"deleteObjectsFromSourceAfterTransfer,omitempty"`
	}

	// TransferSpec names the source and sink of a transfer. GCS descriptors
	// take precedence over S3 ones when both are present.
	TransferSpec struct {
		GcsDataSource    *BucketData       `json:"gcsDataSource,omitempty" yaml:"gcsDataSource,omitempty"`
		AwsS3DataSource  *BucketData       `json:"awsS3DataSource,omitempty" yaml:"awsS3DataSource,omitempty"`
		GcsDataSink      *BucketData       `json:"gcsDataSink,omitempty" yaml:"gcsDataSink,omitempty"`
		AwsS3DataSink    *BucketData       `json:"awsS3DataSink,omitempty" yaml:"awsS3DataSink,omitempty"`
		ObjectConditions *ObjectConditions `json:"objectConditions,omitempty" yaml:"objectConditions,omitempty"`
		TransferOptions  *TransferOptions  `json:"transferOptions,omitempty" yaml:"transferOptions,omitempty"`
	}

	Date struct {
		Year  int `json:"year" yaml:"year"`
		Month int `json:"month" yaml:"month"`
		Day   int `json:"day" yaml:"day"`
	}

	TimeOfDay struct {
		Hours   int `json:"hours" yaml:"hours"`
		Minutes int `json:"minutes" yaml:"minutes"`
		Seconds int `json:"seconds" yaml:"seconds"`
	}

	Schedule struct {
		ScheduleStartDate *Date      `json:"scheduleStartDate,omitempty" yaml:"scheduleStartDate,omitempty"`
		ScheduleEndDate   *Date      `json:"scheduleEndDate,omitempty" yaml:"scheduleEndDate,omitempty"`
		StartTimeOfDay    *TimeOfDay `json:"startTimeOfDay,omitempty" yaml:"startTimeOfDay,omitempty"`
	}

	// Job is a snapshot of a transfer job as listed by the provider.
	Job struct {
		Name                 string        `json:"name" yaml:"name"`
		Description          string        `json:"description,omitempty" yaml:"description,omitempty"`
		ProjectID            string        `json:"projectId,omitempty" yaml:"projectId,omitempty"`
		Status               string        `json:"status" yaml:"status"`
		Schedule             *Schedule     `json:"schedule,omitempty" yaml:"schedule,omitempty"`
		TransferSpec         *TransferSpec `json:"transferSpec,omitempty" yaml:"transferSpec,omitempty"`
		CreationTime         string        `json:"creationTime,omitempty" yaml:"creationTime,omitempty"`
		LastModificationTime string        `json:"lastModificationTime,omitempty" yaml:"lastModificationTime,omitempty"`
		LatestOperationName  string        `json:"latestOperationName,omitempty" yaml:"latestOperationName,omitempty"`
	}

	// Operation is one run of a job. A nil EndTime means the run has not
	// finished yet.
	Operation struct {
		Name            string        `json:"name" yaml:"name"`
		TransferJobName string        `json:"transferJobName" yaml:"transferJobName"`
		ProjectID       string        `json:"projectId,omitempty" yaml:"projectId,omitempty"`
		Status          string        `json:"status" yaml:"status"`
		StartTime       time.Time     `json:"startTime" yaml:"startTime"`
		EndTime         *time.Time    `json:"endTime,omitempty" yaml:"endTime,omitempty"`
		Counters        Counters      `json:"counters,omitempty" yaml:"counters,omitempty"`
		TransferSpec    *TransferSpec `json:"transferSpec,omitempty" yaml:"transferSpec,omitempty"`
	}

	// Counters maps a counter name to its value. The provider encodes int64
	// values as JSON strings; plain numbers are accepted too.
	Counters map[string]int64
)

func (c *Counters) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	result := make(Counters, len(raw))
	for key, value := range raw {
		text := strings.Trim(string(value), `"`)
		parsed, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "counter %s has non-integer value %s", key, string(value))
		}
		result[key] = parsed
	}
	*c = result
	return nil
}

// InProgress reports whether the operation has no end time.
func (op *Operation) InProgress() bool {
	return op.EndTime == nil
}

// Recency is the time used to order operations of the same job: the end
// time when finished, otherwise the start time.
func (op *Operation) Recency() time.Time {
	if op.EndTime != nil {
		return *op.EndTime
	}
	return op.StartTime
}

// Elapsed returns the run duration of a finished operation.
func (op *Operation) Elapsed() (time.Duration, bool) {
	if op.EndTime == nil || op.StartTime.IsZero() {
		return 0, false
	}
	return op.EndTime.Sub(op.StartTime), true
}

// Source returns the source bucket, preferring the GCS descriptor.
func (s *TransferSpec) Source() (BucketRef, bool) {
	if s == nil {
		return BucketRef{}, false
	}
	return pickBucket(s.GcsDataSource, s.AwsS3DataSource)
}

// Sink returns the sink bucket, preferring the GCS descriptor.
func (s *TransferSpec) Sink() (BucketRef, bool) {
	if s == nil {
		return BucketRef{}, false
	}
	return pickBucket(s.GcsDataSink, s.AwsS3DataSink)
}

func pickBucket(gcs, s3 *BucketData) (BucketRef, bool) {
	if gcs != nil {
		return BucketRef{Scheme: SchemeGCS, Name: gcs.BucketName}, true
	}
	if s3 != nil {
		return BucketRef{Scheme: SchemeS3, Name: s3.BucketName}, true
	}
	return BucketRef{}, false
}

// WithoutCredentials returns a copy of the job with AWS access keys removed,
// safe to print.
func (j Job) WithoutCredentials() Job {
	if j.TransferSpec == nil {
		return j
	}
	spec := *j.TransferSpec
	spec.AwsS3DataSource = stripKey(spec.AwsS3DataSource)
	spec.AwsS3DataSink = stripKey(spec.AwsS3DataSink)
	j.TransferSpec = &spec
	return j
}

func stripKey(data *BucketData) *BucketData {
	if data == nil || data.AwsAccessKey == nil {
		return data
	}
	stripped := *data
	stripped.AwsAccessKey = nil
	return &stripped
}
