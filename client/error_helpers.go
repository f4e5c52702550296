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
	"net/http"

	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"

	"github.com/pelicanplatform/stsctl/transfer"
)

// wrapAPIError turns a failed API call into a transfer.TransportError,
// adding a hint for the status codes users hit most often.
func wrapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			err = errors.Wrap(err, "the caller lacks permission; check the credentials and the storagetransfer IAM roles")
		case apiErr.Code == http.StatusNotFound:
			err = errors.Wrap(err, "the project or transfer job does not exist")
		case apiErr.Code == http.StatusTooManyRequests:
			err = errors.Wrap(err, "the API quota is exhausted; retry later or raise Delete.Interval")
		}
	}
	return &transfer.TransportError{Op: op, Err: err}
}

// StatusCode returns the HTTP status of a failed API call, or 0 when err
// did not come from the API.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
