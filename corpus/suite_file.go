package corpus

import (
	"fmt"
	"os"
	"path/filepath"
)

// Suite is a corpus with metadata: a display name, the path prefix that every
// case is expected to start with, and the request paths themselves.
type Suite struct {
	Name   string   `json:"name"`
	Prefix string   `json:"prefix"`
	Paths  []string `json:"paths"`

	cases []TestCase
}

// Cases returns the suite's test cases in file order.
func (s Suite) Cases() []TestCase {
	if s.cases != nil {
		return s.cases
	}
	ret := make([]TestCase, 0, len(s.Paths))
	for _, p := range s.Paths {
		ret = append(ret, TestCase{Path: p})
	}
	return ret
}

// LoadSuiteFile reads a suite file, which may be in either YAML or JSON format.
func LoadSuiteFile(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("cannot open corpus file: %w", err)
	}
	var suite Suite
	if err := ParseJSONOrYAML(data, &suite); err != nil {
		return Suite{}, fmt.Errorf("error parsing suite file %q: %w", path, err)
	}
	if len(suite.Paths) == 0 {
		return Suite{}, fmt.Errorf("suite file %q contains no paths", path)
	}
	if suite.Name == "" {
		suite.Name = filepath.Base(path)
	}
	return suite, nil
}
