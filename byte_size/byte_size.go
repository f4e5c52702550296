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

package byte_size

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/grafana/regexp"
	"github.com/pkg/errors"
)

// A value only moves to the next unit once it reaches this multiple of the
// base, so 1000 bytes prints as "1000B" rather than "0.98KiB".
const escalation = 1.5

// Units is a unit table: a base and the prefixes for each successive power
// of that base. The zero-index prefix is always empty.
type Units struct {
	base     float64
	prefixes [9]string
}

var (
	// Binary is the IEC table (KiB, MiB, ...) used for byte counts.
	Binary = Units{base: 1024, prefixes: [9]string{"", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi", "Yi"}}
	// Decimal is the SI table (K, M, ...) used for object counts.
	Decimal = Units{base: 1000, prefixes: [9]string{"", "K", "M", "G", "T", "P", "E", "Z", "Y"}}
)

var sizeRegexp = regexp.MustCompile(`^(-?[\d.]+)([a-zA-Z]*)$`)

func (u Units) Base() float64 {
	return u.base
}

// Format renders n with the largest prefix from units that keeps the
// magnitude at or above 1.5. Unscaled values print as plain integers and
// scaled ones with two decimals.
func Format(n int64, units Units, suffix string) string {
	if n == 0 {
		return "0" + suffix
	}
	value := math.Abs(float64(n))
	idx := 0
	for value >= escalation*units.base && idx < len(units.prefixes)-1 {
		value /= units.base
		idx++
	}
	if idx == 0 {
		return strconv.FormatInt(n, 10) + suffix
	}
	if n < 0 {
		value = -value
	}
	return fmt.Sprintf("%.2f%s%s", value, units.prefixes[idx], suffix)
}

// Bytes formats a byte count with binary prefixes and a "B" suffix.
func Bytes(n int64) string {
	return Format(n, Binary, "B")
}

// Count formats a plain count with decimal prefixes and no suffix.
func Count(n int64) string {
	return Format(n, Decimal, "")
}

// Parse reverses Format, returning the approximate raw value.
func Parse(s string, units Units, suffix string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty size string")
	}
	s = strings.TrimSuffix(s, suffix)

	matches := sizeRegexp.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid size format: %s", s)
	}
	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", matches[1])
	}
	if matches[2] == "" {
		return value, nil
	}
	for idx := 1; idx < len(units.prefixes); idx++ {
		if units.prefixes[idx] == matches[2] {
			return value * math.Pow(units.base, float64(idx)), nil
		}
	}
	return 0, fmt.Errorf("unknown unit prefix: %s", matches[2])
}
