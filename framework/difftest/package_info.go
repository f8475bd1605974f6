// Package difftest contains the comparison engine and result reporting for
// the differential test harness: whitespace-insensitive body comparison,
// per-case verdicts, case filters, and the console and JUnit reporters.
package difftest
