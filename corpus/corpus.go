// Package corpus reads the set of request paths that a differential test run
// replays against both endpoints. The primary format is a plain text file with
// one request path per line; a YAML or JSON suite file with extra metadata is
// also accepted.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// TestCase is one request path drawn from the corpus, representing one
// comparison unit. It has no identity beyond the path itself.
type TestCase struct {
	Path string
}

// ReadFile loads a line-oriented corpus file. An unreadable file is fatal to
// the whole run, so the error is returned rather than a partial corpus.
func ReadFile(path string) ([]TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open corpus file: %w", err)
	}
	defer func() { _ = f.Close() }()
	cases, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("while reading corpus file %q: %w", path, err)
	}
	return cases, nil
}

// Read produces one TestCase per non-empty line, in input order. Lines are
// trimmed; blank lines and lines starting with "#" are skipped. No validation
// is applied beyond that - a malformed path is still dispatched and surfaces
// as a fetch failure or mismatch downstream.
func Read(r io.Reader) ([]TestCase, error) {
	var cases []TestCase
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cases = append(cases, TestCase{Path: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cases, nil
}

// WithoutPrefix returns the cases whose paths do not start with the expected
// path prefix. The harness only warns about these; they are still run.
func WithoutPrefix(cases []TestCase, prefix string) []TestCase {
	if prefix == "" {
		return nil
	}
	var ret []TestCase
	for _, c := range cases {
		if !strings.HasPrefix(c.Path, prefix) {
			ret = append(ret, c)
		}
	}
	return ret
}

// LoadFile loads a corpus from either format: files with a .yaml, .yml, or
// .json extension are parsed as suite files, anything else as plain lines.
func LoadFile(path string) (Suite, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json":
		return LoadSuiteFile(path)
	default:
		cases, err := ReadFile(path)
		if err != nil {
			return Suite{}, err
		}
		return Suite{Name: filepath.Base(path), cases: cases}, nil
	}
}
