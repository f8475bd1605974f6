// Package framework provides the basic support components used by the
// differential test harness: logging abstractions and captured debug output.
// It contains no knowledge of the services being compared.
package framework
