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
	"errors"
	"fmt"
	"testing"

	"github.com/consensys/go-intcode/pkg/util/source"
	"github.com/consensys/go-intcode/pkg/vm/program"
)

// CheckInvalid checks that a given program fails to parse, producing exactly
// the errors described by the ";;error" attributes at the start of the file.
// Attribute lines are blanked out before parsing, such that the offsets of the
// remaining text are unaffected.
func CheckInvalid(t *testing.T, test string) {
	var filename = fmt.Sprintf("%s/invalid/%s.int", TestDir, test)
	// Enable testing each program in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	// Extract expected errors for comparison
	expected, errs := ExtractAttributes(srcfile, extractSyntaxError)
	//
	if len(errs) > 0 {
		// Report any errors encountered parsing the attributes themselves.
		t.Fatal(errors.Join(errs...))
	}
	//
	stripped := blankAttributes(srcfile, uint(len(expected)))
	//
	var actual []source.SyntaxError
	//
	if _, err := program.Parse(stripped); err != nil {
		actual = append(actual, *err)
	}
	// Check program did not parse!
	checkExpectedErrors(t, stripped, actual, expected)
}

func checkExpectedErrors(t *testing.T, srcfile *source.File, actual, expected []source.SyntaxError) {
	if len(actual) == 0 {
		t.Fatalf("Error %s should not have parsed\n", srcfile.Filename())
	}
	//
	failed := false
	// Construct initial message
	msg := fmt.Sprintf("Error %s\n", srcfile.Filename())
	//
	for i := 0; i < max(len(actual), len(expected)); i++ {
		if i < len(actual) && i < len(expected) {
			if expected[i].Message() == actual[i].Message() && expected[i].Span() == actual[i].Span() {
				continue
			}
		}
		//
		failed = true
		//
		if i < len(actual) {
			msg = fmt.Sprintf("%s unexpected error %s", msg, errorToString(actual[i]))
		}
		//
		if i < len(expected) {
			msg = fmt.Sprintf("%s   expected error %s", msg, errorToString(expected[i]))
		}
	}
	//
	if failed {
		t.Fatal(msg)
	}
}

// Replace the first n lines of a source file with spaces.
func blankAttributes(srcfile *source.File, n uint) *source.File {
	var (
		contents = []rune(string(srcfile.Contents()))
		lines    = srcfile.Lines()
	)
	//
	for _, line := range lines[:min(n, uint(len(lines)))] {
		for i := line.Start(); i < line.Start()+line.Length(); i++ {
			contents[i] = ' '
		}
	}
	//
	return source.NewSourceFile(srcfile.Filename(), []byte(string(contents)))
}

// Convert a span into a useful human readable string.
func errorToString(err source.SyntaxError) string {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := min(line.Length()-lineOffset, span.Length())
	// Print error + line number
	return fmt.Sprintf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
}
