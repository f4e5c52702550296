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

	"github.com/pkg/errors"
)

// ErrDataIntegrity matches any error caused by provider data that breaks an
// invariant this tool relies on.
var ErrDataIntegrity = errors.New("data integrity violation")

type (
	// TransportError wraps any failure of a call to the provider.
	TransportError struct {
		Op  string
		Err error
	}

	// MultipleInProgressError reports a job with more than one unfinished
	// operation.
	MultipleInProgressError struct {
		JobName string
		First   string
		Second  string
	}

	// ConfigurationError reports invalid user input caught before any call
	// to the provider.
	ConfigurationError struct {
		Field  string
		Reason string
	}
)

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *MultipleInProgressError) Error() string {
	return fmt.Sprintf("job %s has more than one in-progress operation (%s and %s)", e.JobName, e.First, e.Second)
}

func (e *MultipleInProgressError) Is(target error) bool {
	return target == ErrDataIntegrity
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newTransportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}
