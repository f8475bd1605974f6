package difftest

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific case or not.
type Filter func(path string) bool

// RegexFilters selects which corpus cases to run, based on the -run and -skip
// command line options.
type RegexFilters struct {
	MustMatch    PatternList
	MustNotMatch PatternList
}

func (r RegexFilters) Match(path string) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(path)) &&
		!r.MustNotMatch.AnyMatch(path)
}

type PatternList []*regexp.Regexp

func (l PatternList) String() string {
	ss := make([]string, 0, len(l))
	for _, p := range l {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (l *PatternList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	*l = append(*l, rx)
	return nil
}

func (l PatternList) IsDefined() bool {
	return len(l) != 0
}

func (l PatternList) AnyMatch(path string) bool {
	for _, p := range l {
		if p.MatchString(path) {
			return true
		}
	}
	return false
}

func PrintFilterDescription(filters RegexFilters) {
	if filters.MustMatch.IsDefined() || filters.MustNotMatch.IsDefined() {
		fmt.Println("Some cases will be skipped based on the filter criteria for this run:")
		if filters.MustMatch.IsDefined() {
			fmt.Printf("  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Printf("  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Println()
	}
}
