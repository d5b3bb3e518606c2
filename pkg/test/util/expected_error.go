// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-intcode/pkg/util/source"
)

// Extract an expected syntax error from a given line in a test file.  Expected
// errors are written ";;error:LINE:START-END:MESSAGE", where columns are
// numbered from 1 and END is exclusive.
func extractSyntaxError(lineno int, lines []source.Line, srcfile *source.File) (bool, source.SyntaxError, error) {
	var contents = lines[lineno].String()
	//
	if !strings.HasPrefix(contents, ";;error:") {
		return false, source.SyntaxError{}, nil
	}
	//
	splits := strings.SplitN(contents, ":", 4)
	//
	if len(splits) < 4 {
		return true, source.SyntaxError{}, fmt.Errorf("malformed expected error \"%s\", should be e.g. \";;error:X:Y-Z:msg\"",
			contents)
	}
	//
	line, err := strconv.Atoi(splits[1])
	//
	if err != nil || line <= 0 || line > len(lines) {
		return true, source.SyntaxError{}, fmt.Errorf("invalid line \"%s\"", splits[1])
	}
	//
	start, end, err := parseColumns(splits[2])
	//
	if err != nil {
		return true, source.SyntaxError{}, err
	}
	//
	span, err := toFileSpan(lines[line-1], start, end)
	//
	return true, *srcfile.SyntaxError(span, splits[3]), err
}

// Parse a column range "X-Y", where columns are numbered from 1.
func parseColumns(columns string) (int, int, error) {
	first, second, ok := strings.Cut(columns, "-")
	//
	if !ok {
		return 0, 0, fmt.Errorf("invalid span \"%s\" (malformed, should be X-Y)", columns)
	}
	//
	start, err1 := strconv.Atoi(first)
	end, err2 := strconv.Atoi(second)
	//
	if err1 != nil || err2 != nil || start <= 0 || end < start {
		return 0, 0, fmt.Errorf("invalid span \"%s\"", columns)
	}
	//
	return start, end, nil
}

// Convert a column range within a given line into a span of the enclosing file.
// The range may extend one past the end of the line, to identify an unexpected
// end of file.
func toFileSpan(line source.Line, start, end int) (source.Span, error) {
	if start > line.Length()+1 || end > line.Length()+2 {
		return source.Span{}, fmt.Errorf("invalid span \"%d-%d\" (overflows line %d)", start, end, line.Number())
	}
	//
	return source.NewSpan(line.Start()+start-1, line.Start()+end-1), nil
}
