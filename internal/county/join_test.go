package county

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danwashburn/truck-parking-dashboard/internal/dataset"
	"github.com/danwashburn/truck-parking-dashboard/internal/geo"
)

func boundary(fips, name string) geo.Feature {
	return geo.Feature{
		Type: "Feature",
		Properties: map[string]interface{}{
			"county_fips": fips,
			"county_name": name,
		},
		Geometry: &geo.Geometry{Type: "Polygon", Coordinates: json.RawMessage(`[[[0,0],[1,0],[1,1],[0,0]]]`)},
	}
}

func TestJoin_LeftJoinFillsMissing(t *testing.T) {
	counties := &geo.FeatureCollection{Features: []geo.Feature{
		boundary("18097", "Marion"),
		boundary("18003", "Allen"),
	}}
	daily := []dataset.DailyRecord{
		{
			FIPS:      "18097",
			Diagnosis: DiagNoOverflow,
			Metrics: map[string]float64{
				"supply":           120,
				"acc_total_demand": 3500.6,
			},
		},
	}

	joined := Join(counties, daily)
	require.Len(t, joined, 2, "geometry is authoritative")

	marion := joined[0]
	assert.True(t, marion.HasDaily)
	assert.Equal(t, "Marion", marion.Name)
	assert.Equal(t, 120.0, marion.Values["supply"])
	assert.Equal(t, 3501, marion.Display["acc_total_demand"])
	assert.Equal(t, DiagNoOverflow, marion.Diagnosis)
	// Metrics absent from the daily row still appear, as zero.
	assert.Equal(t, 0.0, marion.Values["acc_des_deficit"])
	assert.Equal(t, 0, marion.Display["acc_des_deficit"])

	allen := joined[1]
	assert.False(t, allen.HasDaily)
	assert.Empty(t, allen.Diagnosis)
	for _, m := range Metrics {
		v, ok := allen.Values[m.Key]
		require.True(t, ok, "metric %s missing after join", m.Key)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Equal(t, 0, allen.Display[m.Key])
	}
}

func TestJoin_EveryMetricNonNegative(t *testing.T) {
	counties := &geo.FeatureCollection{Features: []geo.Feature{boundary("18097", "Marion")}}
	daily := []dataset.DailyRecord{{
		FIPS:    "18097",
		Metrics: map[string]float64{"acc_des_deficit": -3.5},
	}}

	joined := Join(counties, daily)
	require.Len(t, joined, 1)
	for _, m := range Metrics {
		assert.GreaterOrEqual(t, joined[0].Values[m.Key], 0.0, m.Key)
	}
}

func TestNameIndex(t *testing.T) {
	counties := &geo.FeatureCollection{Features: []geo.Feature{
		boundary("18097", "Marion"),
		boundary("18003", "Allen"),
	}}
	idx := NameIndex(Join(counties, nil))
	assert.Equal(t, "Marion", idx["18097"])
	assert.Equal(t, "Allen", idx["18003"])
}

func TestMetricByKey(t *testing.T) {
	m, ok := MetricByKey("supply")
	require.True(t, ok)
	assert.Equal(t, "Supply (hourly fixed)", m.Label)

	_, ok = MetricByKey("nope")
	assert.False(t, ok)

	assert.Len(t, Metrics, 11)
}
