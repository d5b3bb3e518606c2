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
	"bufio"
	"compress/bzip2"
	"errors"
	"io"
	"os"
	"path"
)

// MAX_LINE_LENGTH bounds the length of any single line read by ReadInputFile.
const MAX_LINE_LENGTH = 1024 * 1024

// ReadInputFile reads an input file as a sequence of lines.  A file which does
// not exist is treated as empty, whilst files with a ".bz2" extension are
// decompressed on the fly.  This panics if the file cannot be read.
func ReadInputFile(filename string) []string {
	var (
		reader io.Reader
		lines  []string
	)
	//
	file, err := os.Open(filename)
	//
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		panic(err)
	}
	//
	defer file.Close()
	//
	if path.Ext(filename) == ".bz2" {
		reader = bzip2.NewReader(file)
	} else {
		reader = file
	}
	//
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), MAX_LINE_LENGTH)
	//
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	//
	if err := scanner.Err(); err != nil {
		panic(err)
	}
	//
	return lines
}
