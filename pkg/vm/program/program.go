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
package program

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-intcode/pkg/util/source"
)

// Token kinds for program text.
const (
	END_OF uint = iota
	WHITESPACE
	COMMA
	NUMBER
)

// Program text consists of signed decimal integers separated by commas.
// Whitespace (including line breaks) is permitted between any two tokens, so a
// long program can be split over several lines.
var scanner source.Scanner[rune] = source.Or(
	source.One(COMMA, ','),
	source.Many(WHITESPACE, ' ', '\t', '\r', '\n'),
	source.Signed(NUMBER, '0', '9', '-', '+'),
	source.Eof[rune](END_OF))

// ParseString parses program text held in memory.  See Parse.
func ParseString(text string) ([]int64, *source.SyntaxError) {
	return Parse(source.NewSourceFile("<input>", []byte(text)))
}

// Parse a program from a given source file into its initial memory image.
// Program text is a comma-separated list of signed (64bit) decimal integers.
// Whitespace between tokens is ignored.  A syntax error is returned
// identifying the first malformed token (if any).
func Parse(srcfile *source.File) ([]int64, *source.SyntaxError) {
	var (
		contents = srcfile.Contents()
		lexer    = source.NewLexer(contents, scanner)
		image    []int64
		// Indicates whether the next token must be a number (as opposed to a
		// comma).
		expectNumber = true
	)
	//
	for lexer.HasNext() {
		var (
			token = lexer.Next()
			text  = string(contents[token.Span.Start():token.Span.End()])
		)
		//
		switch {
		case token.Kind == WHITESPACE:
			continue
		case token.Kind == END_OF && expectNumber:
			return nil, srcfile.SyntaxError(token.Span, "expected integer")
		case token.Kind == END_OF:
			return image, nil
		case token.Kind == NUMBER && expectNumber:
			value, err := strconv.ParseInt(text, 10, 64)
			//
			if err != nil {
				return nil, srcfile.SyntaxError(token.Span, fmt.Sprintf("integer out of range (%s)", text))
			}
			//
			image = append(image, value)
			expectNumber = false
		case token.Kind == COMMA && !expectNumber:
			expectNumber = true
		case token.Kind == COMMA:
			return nil, srcfile.SyntaxError(token.Span, "expected integer")
		default:
			return nil, srcfile.SyntaxError(token.Span, "expected comma")
		}
	}
	// Lexer stopped at an unrecognised character
	index := lexer.Index()
	//
	return nil, srcfile.SyntaxError(source.NewSpan(index, index+1), "unexpected character")
}

// Format a memory image back into program text.
func Format(image []int64) string {
	var builder strings.Builder
	//
	for i, word := range image {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(strconv.FormatInt(word, 10))
	}
	//
	return builder.String()
}
