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
	"encoding/json"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	storagetransfer "google.golang.org/api/storagetransfer/v1"

	"github.com/pelicanplatform/stsctl/transfer"
)

// Operations are listed under this collection name.
const operationsCollection = "transferOperations"

type (
	// Client talks to the Storage Transfer Service REST API. It implements
	// transfer.Pager and transfer.JobPatcher.
	Client struct {
		service *storagetransfer.Service
	}

	// Settings are the knobs exposed through the configuration.
	Settings struct {
		Endpoint        string
		CredentialsFile string
		// AccessToken is a pre-minted OAuth2 token, e.g. from
		// `gcloud auth print-access-token`. It takes precedence over
		// CredentialsFile.
		AccessToken string
		UserAgent   string
		DisableAuth bool
	}
)

// ClientOptions converts settings into API client options.
func (s Settings) ClientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if s.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.Endpoint))
	}
	switch {
	case s.AccessToken != "":
		opts = append(opts, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.AccessToken})))
	case s.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(s.CredentialsFile))
	}
	if s.UserAgent != "" {
		opts = append(opts, option.WithUserAgent(s.UserAgent))
	}
	if s.DisableAuth {
		opts = append(opts, option.WithoutAuthentication())
	}
	return opts
}

func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := storagetransfer.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create storage transfer client")
	}
	return &Client{service: service}, nil
}

// ListJobs returns one page of transfer jobs.
func (c *Client) ListJobs(ctx context.Context, filter transfer.JobFilter, pageSize int, pageToken string) ([]transfer.Job, string, error) {
	encoded, err := filter.Encode()
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to encode job filter")
	}
	call := c.service.TransferJobs.List(encoded).Context(ctx)
	if pageSize > 0 {
		call = call.PageSize(int64(pageSize))
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	log.Debugf("Listing transfer jobs with filter %s (page token %q)", encoded, pageToken)
	resp, err := call.Do()
	if err != nil {
		return nil, "", wrapAPIError("list transfer jobs", err)
	}

	// A project without jobs gets a response with no transferJobs key at all
	jobs := make([]transfer.Job, 0, len(resp.TransferJobs))
	for _, raw := range resp.TransferJobs {
		job, err := decodeJob(raw)
		if err != nil {
			return nil, "", err
		}
		jobs = append(jobs, job)
	}
	return jobs, resp.NextPageToken, nil
}

// ListOperations returns one page of transfer operations.
func (c *Client) ListOperations(ctx context.Context, filter transfer.OperationFilter, pageSize int, pageToken string) ([]transfer.Operation, string, error) {
	encoded, err := filter.Encode()
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to encode operation filter")
	}
	call := c.service.TransferOperations.List(operationsCollection, encoded).Context(ctx)
	if pageSize > 0 {
		call = call.PageSize(int64(pageSize))
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	log.Debugf("Listing transfer operations with filter %s (page token %q)", encoded, pageToken)
	resp, err := call.Do()
	if err != nil {
		return nil, "", wrapAPIError("list transfer operations", err)
	}

	ops := make([]transfer.Operation, 0, len(resp.Operations))
	for _, raw := range resp.Operations {
		if len(raw.Metadata) == 0 {
			log.Warningf("Ignoring transfer operation %s without metadata", raw.Name)
			continue
		}
		op, err := decodeOperation(raw)
		if err != nil {
			return nil, "", err
		}
		ops = append(ops, op)
	}
	return ops, resp.NextPageToken, nil
}

// UpdateJobStatus patches only the status field of a job.
func (c *Client) UpdateJobStatus(ctx context.Context, projectID, jobName, status string) (*transfer.Job, error) {
	req := &storagetransfer.UpdateTransferJobRequest{
		ProjectId:                  projectID,
		TransferJob:                &storagetransfer.TransferJob{Status: status},
		UpdateTransferJobFieldMask: "status",
	}
	resp, err := c.service.TransferJobs.Patch(jobName, req).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("update transfer job "+jobName, err)
	}
	job, err := decodeJob(resp)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob submits a new transfer job and returns the provider's copy.
func (c *Client) CreateJob(ctx context.Context, job transfer.Job) (*transfer.Job, error) {
	apiJob, err := encodeJob(job)
	if err != nil {
		return nil, err
	}
	resp, err := c.service.TransferJobs.Create(apiJob).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("create transfer job", err)
	}
	created, err := decodeJob(resp)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// The API types and ours share the provider's JSON field names, so
// conversion goes through JSON. Fields we do not model are dropped.
func decodeJob(raw *storagetransfer.TransferJob) (transfer.Job, error) {
	var job transfer.Job
	buf, err := json.Marshal(raw)
	if err != nil {
		return job, errors.Wrap(err, "failed to encode transfer job")
	}
	if err := json.Unmarshal(buf, &job); err != nil {
		return job, errors.Wrapf(err, "failed to decode transfer job %s", raw.Name)
	}
	return job, nil
}

func encodeJob(job transfer.Job) (*storagetransfer.TransferJob, error) {
	buf, err := json.Marshal(job)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode transfer job")
	}
	apiJob := &storagetransfer.TransferJob{}
	if err := json.Unmarshal(buf, apiJob); err != nil {
		return nil, errors.Wrapf(err, "failed to convert transfer job %s", job.Name)
	}
	return apiJob, nil
}

func decodeOperation(raw *storagetransfer.Operation) (transfer.Operation, error) {
	var op transfer.Operation
	if err := json.Unmarshal(raw.Metadata, &op); err != nil {
		return op, errors.Wrapf(err, "failed to decode metadata of transfer operation %s", raw.Name)
	}
	if op.Name == "" {
		op.Name = raw.Name
	}
	return op, nil
}
