// Package dataset loads the precomputed dashboard inputs: the per-county
// daily metrics table, county boundaries, the hourly demand table, and the
// two optional overlay layers. All loads are memoized by path.
package dataset

import "strings"

// DailyRecord is one row of the daily per-county metrics table. Metric values
// are keyed by CSV column name; missing or unparseable values are zero.
type DailyRecord struct {
	FIPS      string
	Diagnosis string
	Metrics   map[string]float64
}

// HourlyRecord is one row of the hourly demand table.
type HourlyRecord struct {
	County      string
	Hour        int
	DesDemand   float64
	UndesDemand float64
	Supply      float64
}

// PadFIPS zero-pads a county identifier to 5 characters.
func PadFIPS(s string) string {
	s = strings.TrimSpace(s)
	for len(s) < 5 {
		s = "0" + s
	}
	return s
}
