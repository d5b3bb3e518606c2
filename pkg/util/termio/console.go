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
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// LineReader provides lines of text typed by a user, without their line
// terminators.  An io.EOF error signals there are no further lines.
type LineReader interface {
	ReadLine() (string, error)
}

// Console provides line-oriented interaction with a terminal, including line
// editing and history.  The terminal is switched into raw mode for the lifetime
// of the console, and must be restored afterwards.
type Console struct {
	// file descriptor of input.
	fd int
	// Underlying terminal
	xterm *term.Terminal
	// Stores original state of terminal so this can be restored.
	state *term.State
}

// IsTerminal checks whether stdin is attached to a terminal, and hence whether
// a Console can be constructed.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsTerminalOutput checks whether stdout is attached to a terminal, and hence
// whether ANSI escapes can be used.
func IsTerminalOutput() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewConsole constructs a new console with a given prompt.
func NewConsole(prompt string) (*Console, error) {
	fd := int(os.Stdin.Fd())
	//
	if !term.IsTerminal(fd) {
		return nil, errors.New("invalid terminal")
	}
	// Move terminal into raw mode
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	//
	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	//
	return &Console{fd, term.NewTerminal(screen, prompt), state}, nil
}

// ReadLine implementation for the LineReader interface.
func (c *Console) ReadLine() (string, error) {
	return c.xterm.ReadLine()
}

// Write text to the console.  Line feeds are translated as necessary for a
// terminal in raw mode.
func (c *Console) Write(bytes []byte) (int, error) {
	return c.xterm.Write(bytes)
}

// Restore terminal to its original state.
func (c *Console) Restore() error {
	return term.Restore(c.fd, c.state)
}

// NewLineReader constructs a LineReader over an arbitrary stream, such as a
// pipe or a file.  Trailing carriage returns are removed.
func NewLineReader(reader io.Reader) LineReader {
	return &streamReader{bufio.NewScanner(reader)}
}

type streamReader struct {
	scanner *bufio.Scanner
}

func (p *streamReader) ReadLine() (string, error) {
	if p.scanner.Scan() {
		return strings.TrimSuffix(p.scanner.Text(), "\r"), nil
	} else if err := p.scanner.Err(); err != nil {
		return "", err
	}
	//
	return "", io.EOF
}
