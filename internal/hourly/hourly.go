// Package hourly aggregates the hourly demand table into the stacked-bar
// series and the CSV export, scoped statewide or to a single county.
package hourly

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/danwashburn/truck-parking-dashboard/internal/dataset"
)

// Row is one aggregated hour. Supply is the scope's fixed constant, repeated
// on every row.
type Row struct {
	Hour        int     `json:"hour"`
	DesDemand   float64 `json:"des_demand"`
	UndesDemand float64 `json:"undes_demand"`
	Supply      float64 `json:"supply"`
}

// Series is one stack segment of the bar chart, aligned to the Hours list of
// its payload.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// SupplyFor returns the fixed daily supply for one county, zero when the
// county has no daily row.
func SupplyFor(daily []dataset.DailyRecord, fips string) float64 {
	for _, rec := range daily {
		if rec.FIPS == fips {
			return rec.Metrics["supply"]
		}
	}
	return 0
}

// SupplyTotal returns the statewide supply constant: the sum of every
// county's daily supply.
func SupplyTotal(daily []dataset.DailyRecord) float64 {
	total := 0.0
	for _, rec := range daily {
		total += rec.Metrics["supply"]
	}
	return total
}

// Aggregate groups hourly demand by hour, summing designated and
// undesignated demand. A non-empty fips filters to that county; the rows
// cover exactly the hours present in the (filtered) source, sorted ascending,
// each carrying supplyConst.
func Aggregate(records []dataset.HourlyRecord, fips string, supplyConst float64) []Row {
	byHour := make(map[int]*Row)
	for _, rec := range records {
		if fips != "" && rec.County != fips {
			continue
		}
		r, ok := byHour[rec.Hour]
		if !ok {
			r = &Row{Hour: rec.Hour, Supply: supplyConst}
			byHour[rec.Hour] = r
		}
		r.DesDemand += rec.DesDemand
		r.UndesDemand += rec.UndesDemand
	}

	rows := make([]Row, 0, len(byHour))
	for _, r := range byHour {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Hour < rows[j].Hour })
	return rows
}

// Stacked reshapes aggregated rows into the fixed stack order the chart
// expects: Designated on the bottom, Undesignated on top.
func Stacked(rows []Row) (hours []int, series []Series) {
	des := Series{Name: "Designated", Values: make([]float64, 0, len(rows))}
	undes := Series{Name: "Undesignated", Values: make([]float64, 0, len(rows))}
	for _, r := range rows {
		hours = append(hours, r.Hour)
		des.Values = append(des.Values, r.DesDemand)
		undes.Values = append(undes.Values, r.UndesDemand)
	}
	return hours, []Series{des, undes}
}

// WriteCSV writes the aggregated table with raw, unrounded values. The
// download keeps full precision; only tooltips round.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"hour", "des_demand", "undes_demand", "supply"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Hour),
			formatFloat(r.DesDemand),
			formatFloat(r.UndesDemand),
			formatFloat(r.Supply),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
