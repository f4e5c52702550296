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

package test_utils

import (
	"context"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// TestContext returns a context bound to the test deadline, if any.
func TestContext(ictx context.Context, t *testing.T) (ctx context.Context, cancel context.CancelFunc) {
	if deadline, ok := t.Deadline(); ok {
		ctx, cancel = context.WithDeadline(ictx, deadline)
	} else {
		ctx, cancel = context.WithCancel(ictx)
	}
	return
}

// SetupTestLogging captures log entries from the standard logger and
// replays them through t.Log when the test fails. Call the returned
// function to restore the logger.
func SetupTestLogging(t *testing.T) func() {
	logger := log.StandardLogger()
	oldHooks := logger.ReplaceHooks(make(log.LevelHooks))
	oldOut := logger.Out
	hook := test.NewLocal(logger)
	logger.SetOutput(io.Discard)

	return func() {
		if t.Failed() {
			for _, entry := range hook.AllEntries() {
				t.Logf("[%s] %s", entry.Level, entry.Message)
			}
		}
		logger.ReplaceHooks(oldHooks)
		logger.SetOutput(oldOut)
	}
}
