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
)

const (
	SchemeGCS = "gs"
	SchemeS3  = "s3"
)

type (
	// BucketRef identifies a bucket. An empty Scheme matches either kind.
	BucketRef struct {
		Scheme string
		Name   string
	}

	// BucketFilter keeps records whose source and sink buckets match. Zero
	// fields match everything.
	BucketFilter struct {
		Source BucketRef
		Sink   BucketRef
	}
)

func (b BucketRef) String() string {
	if b.Scheme == "" {
		return b.Name
	}
	return b.Scheme + "://" + b.Name
}

func (b BucketRef) IsZero() bool {
	return b.Name == ""
}

// ParseBucketURL parses a fully qualified gs:// or s3:// bucket URL.
func ParseBucketURL(raw string) (BucketRef, error) {
	scheme, name, found := strings.Cut(raw, "://")
	if !found || name == "" {
		return BucketRef{}, &ConfigurationError{Field: "bucket", Reason: "expected gs://<bucket> or s3://<bucket>, got " + raw}
	}
	switch scheme {
	case SchemeGCS, SchemeS3:
		return BucketRef{Scheme: scheme, Name: strings.TrimSuffix(name, "/")}, nil
	default:
		return BucketRef{}, &ConfigurationError{Field: "bucket", Reason: "unknown bucket type " + scheme}
	}
}

// ParseBucketFilter accepts either a bare bucket name or a bucket URL. An
// empty string yields a filter that matches everything.
func ParseBucketFilter(raw string) (BucketRef, error) {
	if raw == "" {
		return BucketRef{}, nil
	}
	if !strings.Contains(raw, "://") {
		return BucketRef{Name: raw}, nil
	}
	return ParseBucketURL(raw)
}

func (b BucketRef) matches(have BucketRef, present bool) bool {
	if b.IsZero() {
		return true
	}
	if !present || have.Name != b.Name {
		return false
	}
	return b.Scheme == "" || b.Scheme == have.Scheme
}

// Matches reports whether spec satisfies both the source and sink filters.
func (f BucketFilter) Matches(spec *TransferSpec) bool {
	source, ok := spec.Source()
	if !f.Source.matches(source, ok) {
		return false
	}
	sink, ok := spec.Sink()
	return f.Sink.matches(sink, ok)
}

func (f BucketFilter) MatchesJob(job *Job) bool {
	return f.Matches(job.TransferSpec)
}

func (f BucketFilter) MatchesOperation(op *Operation) bool {
	return f.Matches(op.TransferSpec)
}
