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

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/go-kit/log/term"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/pelicanplatform/stsctl/param"
)

// BufferedLogHook buffers log entries until they are flushed
type BufferedLogHook struct {
	mu      sync.Mutex
	entries []*log.Entry
	flushed atomic.Bool
}

var (
	bufferedHook atomic.Pointer[BufferedLogHook]
	flushOnce    sync.Once
	flushErr     error
	logFHandle   *os.File
)

// ResetLogFlush lets unit tests flush more than once.
func ResetLogFlush() {
	flushOnce = sync.Once{}
	flushErr = nil
}

func NewBufferedLogHook() *BufferedLogHook {
	return &BufferedLogHook{
		entries: make([]*log.Entry, 0),
	}
}

// Fire is called on every log entry
func (hook *BufferedLogHook) Fire(entry *log.Entry) error {
	if hook.flushed.Load() {
		return nil
	}
	hook.mu.Lock()
	defer hook.mu.Unlock()
	hook.entries = append(hook.entries, entry)
	return nil
}

// Levels defines which log levels this hook applies to
func (hook *BufferedLogHook) Levels() []log.Level {
	return log.AllLevels
}

// removeBufferedHook drops the buffering hook, leaving every other hook of
// the standard logger in place.
func removeBufferedHook(hook *BufferedLogHook) {
	kept := make(log.LevelHooks)
	for level, hooks := range log.StandardLogger().Hooks {
		for _, h := range hooks {
			if h != log.Hook(hook) {
				kept[level] = append(kept[level], h)
			}
		}
	}
	log.StandardLogger().ReplaceHooks(kept)
}

// FlushLogs replays the buffered log entries and switches to direct
// logging, either to stderr or, when pushToFile is set and
// Logging.LogLocation names one, to a log file. Only the first call has any
// effect.
func FlushLogs(pushToFile bool) error {
	flushOnce.Do(func() {
		flushErr = flushLogs(pushToFile)
	})
	return flushErr
}

func flushLogs(pushToFile bool) error {
	logLocation := param.Logging_LogLocation.GetString()
	if pushToFile && logLocation != "" {
		if dir := filepath.Dir(logLocation); dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return errors.Wrap(err, "failed to access/create specified directory")
			}
		}

		f, err := os.OpenFile(logLocation, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0640)
		if err != nil {
			return errors.Wrap(err, "failed to access specified log file")
		}
		logFHandle = f
		fmt.Fprintf(os.Stderr, "Logging.LogLocation is set to %s. All logs are redirected to the log file.\n", logLocation)
		log.SetOutput(f)

		// Disable colors for log files
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:          true,
			DisableColors:          true,
			DisableLevelTruncation: true,
		})
	} else {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:          true,
			ForceColors:            term.IsTerminal(log.StandardLogger().Out),
			DisableLevelTruncation: true,
		})
	}

	hook := bufferedHook.Swap(nil)
	if hook == nil {
		return nil
	}
	hook.flushed.Store(true)
	removeBufferedHook(hook)

	hook.mu.Lock()
	entries := hook.entries
	hook.entries = nil
	hook.mu.Unlock()

	for _, entry := range entries {
		// Entries below the level chosen by the configuration are dropped
		if !log.IsLevelEnabled(entry.Level) {
			continue
		}
		formatted, err := entry.String()
		if err == nil {
			_, _ = log.StandardLogger().Out.Write([]byte(formatted))
		}
	}

	if out, ok := log.StandardLogger().Out.(*os.File); ok {
		_ = out.Sync()
	}
	return nil
}

// CloseLogger closes the log file so tests can clean up after themselves.
// Outside of tests the handle lives until the process exits.
func CloseLogger() {
	if logFHandle != nil {
		_ = logFHandle.Close()
		logFHandle = nil
	}
}

// SetupLogBuffering discards output and buffers entries until FlushLogs
// knows where logs should go.
func SetupLogBuffering() {
	log.SetOutput(io.Discard)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})
	// Buffer everything; FlushLogs filters by the configured level
	log.SetLevel(log.DebugLevel)

	hook := NewBufferedLogHook()
	if bufferedHook.CompareAndSwap(nil, hook) {
		log.AddHook(hook)
	}
}
