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
package termio

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// TablePrinter lays out text in columns, such that every column is as wide as
// its widest cell.  Cells can optionally be coloured using ANSI escapes.
type TablePrinter struct {
	widths        []uint
	leftAligned   []bool
	rows          [][]string
	escapes       [][]string
	enableEscapes bool
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	rows := make([][]string, height)
	escapes := make([][]string, height)
	//
	for i := range height {
		rows[i] = make([]string, width)
		escapes[i] = make([]string, width)
	}
	//
	return &TablePrinter{make([]uint, width), make([]bool, width), rows, escapes, true}
}

// Set the contents of a given cell in this table
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], uint(len(val)))
	p.rows[row][col] = val
}

// Get the contents of a given cell in this table
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// Height returns the height of this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// SetRow sets the contents of an entire row in this table
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	//
	for i, val := range vals {
		p.Set(uint(i), row, val)
	}
}

// SetEscape sets the escape (e.g. colour) to use when printing a given cell.
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = escape.Build()
}

// AlignLeft determines whether a given column is left aligned (by default,
// columns are right aligned).
func (p *TablePrinter) AlignLeft(col uint, left bool) {
	p.leftAligned[col] = left
}

// AnsiEscapes enables or disables the use of ANSI escapes.  Disabling escapes
// is useful when output is not going to a terminal, as otherwise escape
// characters appear in the output.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// Print the table to stdout.
func (p *TablePrinter) Print() {
	// Errors writing to stdout are ignored.
	_ = p.Fprint(os.Stdout)
}

// Fprint writes the table to a given writer, one line per row.  Trailing
// whitespace is trimmed from each line.
func (p *TablePrinter) Fprint(w io.Writer) error {
	var builder strings.Builder
	//
	for i, row := range p.rows {
		builder.Reset()
		//
		for j, cell := range row {
			var escape = p.escapes[i][j]
			//
			if j != 0 {
				builder.WriteString("  ")
			}
			//
			if p.enableEscapes && escape != "" {
				builder.WriteString(escape)
			}
			//
			if p.leftAligned[j] {
				fmt.Fprintf(&builder, "%-*s", p.widths[j], cell)
			} else {
				fmt.Fprintf(&builder, "%*s", p.widths[j], cell)
			}
			//
			if p.enableEscapes && escape != "" {
				builder.WriteString(ResetAnsiEscape().Build())
			}
		}
		//
		if _, err := fmt.Fprintln(w, strings.TrimRight(builder.String(), " ")); err != nil {
			return err
		}
	}
	//
	return nil
}
