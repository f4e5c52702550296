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
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Aggregate accumulates counters and status totals over representative
// operations. The zero value is not usable; call NewAggregate.
type Aggregate struct {
	Counters      map[string]int64
	JobCount      int
	TransferCount int
	StatusCounts  map[string]int
	EarliestStart time.Time
	LatestEnd     time.Time
}

func NewAggregate() *Aggregate {
	return &Aggregate{
		Counters:     make(map[string]int64),
		StatusCounts: make(map[string]int),
	}
}

func normalizeStatus(status string) string {
	if status == "" {
		return "unknown"
	}
	return strings.ToLower(status)
}

// AddJob counts the job and folds in its representative operation, if any.
func (a *Aggregate) AddJob(r Reconciled) {
	a.JobCount++
	if r.Representative != nil {
		a.AddOperation(*r.Representative)
	}
}

// AddOperation folds one operation into the totals.
func (a *Aggregate) AddOperation(op Operation) {
	a.TransferCount++
	a.StatusCounts[normalizeStatus(op.Status)]++
	for name, value := range op.Counters {
		a.Counters[name] += value
	}
	if !op.StartTime.IsZero() && (a.EarliestStart.IsZero() || op.StartTime.Before(a.EarliestStart)) {
		a.EarliestStart = op.StartTime
	}
	if op.EndTime != nil && op.EndTime.After(a.LatestEnd) {
		a.LatestEnd = *op.EndTime
	}
}

// Merge adds the totals of other into a.
func (a *Aggregate) Merge(other *Aggregate) {
	a.JobCount += other.JobCount
	a.TransferCount += other.TransferCount
	for status, count := range other.StatusCounts {
		a.StatusCounts[status] += count
	}
	for name, value := range other.Counters {
		a.Counters[name] += value
	}
	if !other.EarliestStart.IsZero() && (a.EarliestStart.IsZero() || other.EarliestStart.Before(a.EarliestStart)) {
		a.EarliestStart = other.EarliestStart
	}
	if other.LatestEnd.After(a.LatestEnd) {
		a.LatestEnd = other.LatestEnd
	}
}

func (a *Aggregate) Count(status string) int {
	return a.StatusCounts[normalizeStatus(status)]
}

// Statuses lists the normalized statuses seen, sorted.
func (a *Aggregate) Statuses() []string {
	statuses := lo.Keys(a.StatusCounts)
	sort.Strings(statuses)
	return statuses
}

func percent(part, whole int64) (float64, bool) {
	if whole <= 0 {
		return 0, false
	}
	return float64(part) / float64(whole) * 100, true
}

// BytesCopiedPercent is copied bytes over found bytes; ok is false when no
// bytes were found.
func (a *Aggregate) BytesCopiedPercent() (float64, bool) {
	return percent(a.Counters[CounterBytesCopied], a.Counters[CounterBytesFound])
}

func (a *Aggregate) ObjectsCopiedPercent() (float64, bool) {
	return percent(a.Counters[CounterObjectsCopied], a.Counters[CounterObjectsFound])
}

// Window returns how long the aggregated operations ran, from the earliest
// start to the latest end, and how long ago the last one finished.
func (a *Aggregate) Window(now time.Time) (ranFor time.Duration, since time.Duration, ok bool) {
	if a.EarliestStart.IsZero() || a.LatestEnd.IsZero() {
		return 0, 0, false
	}
	return a.LatestEnd.Sub(a.EarliestStart), now.Sub(a.LatestEnd), true
}

// Summary flattens the aggregate: one entry per observed counter, plus
// jobCount, transferCount and a <status>Count entry per status.
func (a *Aggregate) Summary() map[string]interface{} {
	summary := make(map[string]interface{}, len(a.Counters)+len(a.StatusCounts)+2)
	for name, value := range a.Counters {
		summary[name] = value
	}
	for status, count := range a.StatusCounts {
		summary[status+"Count"] = count
	}
	summary["jobCount"] = a.JobCount
	summary["transferCount"] = a.TransferCount
	return summary
}
