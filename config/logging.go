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

package config

import (
	"sync"

	"github.com/grafana/regexp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/pelicanplatform/stsctl/param"
)

type (
	// RegexpFilter rewrites any match of Regexp in a log message with
	// Replacement.
	RegexpFilter struct {
		Name        string
		Regexp      *regexp.Regexp
		Replacement string
	}

	// RedactionHook is a logrus hook that scrubs credentials out of log
	// entries before they are written anywhere.
	RedactionHook struct {
		filters []*RegexpFilter
	}
)

var (
	redactionOnce sync.Once

	// DefaultFilters cover the secrets this tool handles: AWS secret keys in
	// created jobs and OAuth2 bearer tokens.
	DefaultFilters = []*RegexpFilter{
		{
			Name:        "aws-secret-json",
			Regexp:      regexp.MustCompile(`("secretAccessKey"\s*:\s*)"[^"]*"`),
			Replacement: `${1}"REDACTED"`,
		},
		{
			Name:        "aws-secret-kv",
			Regexp:      regexp.MustCompile(`((?i:secret_?access_?key)\s*[=:]\s*)[^\s",}]+`),
			Replacement: `${1}REDACTED`,
		},
		{
			Name:        "bearer",
			Regexp:      regexp.MustCompile(`(Bearer\s+)[A-Za-z0-9._~+/-]+=*`),
			Replacement: `${1}REDACTED`,
		},
	}
)

func NewRedactionHook(filters ...*RegexpFilter) *RedactionHook {
	return &RedactionHook{filters: filters}
}

func (rh *RedactionHook) Levels() []log.Level {
	return log.AllLevels
}

// Fire rewrites the message and every string field of the entry in place.
func (rh *RedactionHook) Fire(entry *log.Entry) error {
	entry.Message = rh.Redact(entry.Message)
	for key, value := range entry.Data {
		if str, ok := value.(string); ok {
			entry.Data[key] = rh.Redact(str)
		}
	}
	return nil
}

func (rh *RedactionHook) Redact(msg string) string {
	for _, filter := range rh.filters {
		msg = filter.Regexp.ReplaceAllString(msg, filter.Replacement)
	}
	return msg
}

// installRedaction adds the default redaction hook to the global logger once.
func installRedaction() {
	redactionOnce.Do(func() {
		log.AddHook(NewRedactionHook(DefaultFilters...))
	})
}

// SetLogLevel applies Debug, which wins, or Logging.Level to the global
// logger.
func SetLogLevel() error {
	installRedaction()
	if param.Debug.GetBool() {
		log.SetLevel(log.DebugLevel)
		return nil
	}
	levelName := param.Logging_Level.GetString()
	if levelName == "" {
		return nil
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", param.Logging_Level.GetName())
	}
	log.SetLevel(level)
	return nil
}
