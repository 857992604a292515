package county

import (
	"math"

	"github.com/danwashburn/truck-parking-dashboard/internal/dataset"
	"github.com/danwashburn/truck-parking-dashboard/internal/geo"
)

// County is one joined county: boundary feature plus filled daily metrics and
// rounded display copies for tooltips.
type County struct {
	FIPS      string
	Name      string
	Feature   *geo.Feature
	Diagnosis string
	HasDaily  bool

	// Values holds every numeric metric, zero-filled. Display holds the
	// integer-rounded copy used for tooltips only.
	Values  map[string]float64
	Display map[string]int
}

// Join left-joins daily metrics onto the county boundary collection by FIPS.
// Geometry is authoritative: every boundary feature yields a county, with all
// metrics zero when no daily row matches.
func Join(counties *geo.FeatureCollection, daily []dataset.DailyRecord) []County {
	byFIPS := make(map[string]dataset.DailyRecord, len(daily))
	for _, rec := range daily {
		byFIPS[rec.FIPS] = rec
	}

	joined := make([]County, 0, len(counties.Features))
	for i := range counties.Features {
		f := &counties.Features[i]
		c := County{
			FIPS:    f.PropString("county_fips"),
			Name:    f.PropString("county_name"),
			Feature: f,
			Values:  make(map[string]float64, len(Metrics)),
			Display: make(map[string]int, len(Metrics)),
		}

		rec, ok := byFIPS[c.FIPS]
		if ok {
			c.HasDaily = true
			c.Diagnosis = rec.Diagnosis
		}
		for _, m := range Metrics {
			v := 0.0
			if ok {
				// Absent columns fall through to zero.
				v = rec.Metrics[m.Key]
			}
			if v < 0 || math.IsNaN(v) {
				v = 0
			}
			c.Values[m.Key] = v
			c.Display[m.Key] = int(math.Round(v))
		}

		joined = append(joined, c)
	}
	return joined
}

// NameIndex maps FIPS to county name over a joined set.
func NameIndex(counties []County) map[string]string {
	idx := make(map[string]string, len(counties))
	for _, c := range counties {
		idx[c.FIPS] = c.Name
	}
	return idx
}
