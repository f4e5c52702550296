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

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pelicanplatform/stsctl/byte_size"
	"github.com/pelicanplatform/stsctl/transfer"
)

// Mode selects how a report is rendered.
type Mode string

const (
	ModeText  Mode = "text"
	ModeShell Mode = "shell"
	ModeJSON  Mode = "json"
)

const separatorWidth = 70

var separator = strings.Repeat("-", separatorWidth)

// ParseMode maps the --summarize value to a mode. An empty value means the
// full text report.
func ParseMode(summarize string) (Mode, error) {
	switch Mode(strings.ToLower(summarize)) {
	case "", ModeText:
		return ModeText, nil
	case ModeShell:
		return ModeShell, nil
	case ModeJSON:
		return ModeJSON, nil
	}
	return "", &transfer.ConfigurationError{
		Field:  "summarize",
		Reason: fmt.Sprintf("unsupported mode %q; expected json or shell", summarize),
	}
}

// Printer renders reconciled jobs and the final aggregate.
type Printer struct {
	Out  io.Writer
	Mode Mode
	// ShowAll dumps every operation of a job instead of the representative.
	ShowAll bool
	Now     func() time.Time
}

func NewPrinter(out io.Writer, mode Mode, showAll bool) *Printer {
	return &Printer{Out: out, Mode: mode, ShowAll: showAll, Now: time.Now}
}

// Visit dumps one job and its operations as YAML. Only the text mode
// prints anything; the summary modes stay machine readable.
func (p *Printer) Visit(r transfer.Reconciled) error {
	if p.Mode != ModeText {
		return nil
	}
	if err := p.dump(r.Job); err != nil {
		return err
	}
	if p.ShowAll {
		for _, op := range r.Operations {
			if err := p.dump(op); err != nil {
				return err
			}
		}
		return nil
	}
	if r.Representative != nil {
		return p.dump(r.Representative)
	}
	return nil
}

func (p *Printer) dump(record interface{}) error {
	buf, err := yaml.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "failed to encode record as YAML")
	}
	_, err = fmt.Fprintf(p.Out, "%s\n%s", separator, buf)
	return err
}

// Summary renders the aggregate according to the mode.
func (p *Printer) Summary(agg *transfer.Aggregate) error {
	switch p.Mode {
	case ModeShell:
		return WriteShell(p.Out, agg.Summary())
	case ModeJSON:
		return WriteJSON(p.Out, agg.Summary())
	default:
		return p.writeText(agg)
	}
}

// Deleted reports jobs that were just marked DELETED.
func (p *Printer) Deleted(jobs []transfer.Job) error {
	if p.Mode != ModeText {
		return nil
	}
	for _, job := range jobs {
		if err := p.dump(job); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) writeText(agg *transfer.Aggregate) error {
	w := &errWriter{w: p.Out}
	w.printf("%s\n", separator)
	w.printf("Matched %d jobs, %d transfers: %d successful, %d in-progress\n",
		agg.JobCount, agg.TransferCount, agg.Count(transfer.StatusSuccess), agg.Count(transfer.StatusInProgress))
	if statuses := agg.Statuses(); len(statuses) > 0 {
		parts := make([]string, 0, len(statuses))
		for _, status := range statuses {
			parts = append(parts, fmt.Sprintf("%s %d", status, agg.Count(status)))
		}
		w.printf("Statuses: %s\n", strings.Join(parts, ", "))
	}
	if w.err != nil {
		return w.err
	}

	if len(agg.Counters) > 0 {
		renderCounters(p.Out, agg.Counters)
	}

	if pct, ok := agg.BytesCopiedPercent(); ok {
		w.printf("Copied %4.1f%% bytes: %s / %s, %s failed, %s skipped\n", pct,
			byte_size.Bytes(agg.Counters[transfer.CounterBytesCopied]),
			byte_size.Bytes(agg.Counters[transfer.CounterBytesFound]),
			byte_size.Bytes(agg.Counters[transfer.CounterBytesFailed]),
			byte_size.Bytes(agg.Counters[transfer.CounterBytesSkipped]))
	}
	if pct, ok := agg.ObjectsCopiedPercent(); ok {
		w.printf("Found %4.1f%% objects: %s / %s, %s failed, %s skipped\n", pct,
			byte_size.Count(agg.Counters[transfer.CounterObjectsCopied]),
			byte_size.Count(agg.Counters[transfer.CounterObjectsFound]),
			byte_size.Count(agg.Counters[transfer.CounterObjectsFailed]),
			byte_size.Count(agg.Counters[transfer.CounterObjectsSkipped]))
	}
	if ranFor, since, ok := agg.Window(p.now()); ok {
		w.printf("Ran for %d seconds, finishing %.1f hours ago\n", int64(ranFor.Seconds()), since.Hours())
	}
	return w.err
}

func (p *Printer) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func renderCounters(out io.Writer, counters map[string]int64) {
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Counter", "Value", "Human"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, name := range names {
		value := counters[name]
		human := byte_size.Count(value)
		if strings.HasPrefix(name, "bytes") {
			human = byte_size.Bytes(value)
		}
		table.Append([]string{name, fmt.Sprintf("%d", value), human})
	}
	table.Render()
}

// WriteShell prints key=value lines sorted by key, suitable for eval.
func WriteShell(out io.Writer, summary map[string]interface{}) error {
	keys := make([]string, 0, len(summary))
	for key := range summary {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := fmt.Fprintf(out, "%s=%s\n", key, shellValue(summary[key])); err != nil {
			return err
		}
	}
	return nil
}

func shellValue(value interface{}) string {
	switch v := value.(type) {
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%0.1f", v)
	default:
		return fmt.Sprint(v)
	}
}

// WriteJSON prints the summary as a single JSON object.
func WriteJSON(out io.Writer, summary map[string]interface{}) error {
	buf, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrap(err, "failed to encode summary as JSON")
	}
	_, err = fmt.Fprintf(out, "%s\n", buf)
	return err
}

// errWriter remembers the first write error so a run of printf calls can
// be checked once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
