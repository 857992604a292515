package hourly

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danwashburn/truck-parking-dashboard/internal/dataset"
)

func rec(county string, hour int, des, undes, supply float64) dataset.HourlyRecord {
	return dataset.HourlyRecord{County: county, Hour: hour, DesDemand: des, UndesDemand: undes, Supply: supply}
}

var testHourly = []dataset.HourlyRecord{
	rec("18097", 0, 10.5, 2, 120),
	rec("18097", 1, 12, 3.25, 120),
	rec("18097", 23, 8, 1, 120),
	rec("18003", 0, 4, 1, 40),
	rec("18003", 1, 5, 2, 40),
}

var testDaily = []dataset.DailyRecord{
	{FIPS: "18097", Metrics: map[string]float64{"supply": 120}},
	{FIPS: "18003", Metrics: map[string]float64{"supply": 40}},
}

func TestAggregate_SelectedCounty(t *testing.T) {
	supply := SupplyFor(testDaily, "18097")
	rows := Aggregate(testHourly, "18097", supply)

	// Exactly the hours present for that county, sorted.
	require.Len(t, rows, 3)
	assert.Equal(t, []int{0, 1, 23}, []int{rows[0].Hour, rows[1].Hour, rows[2].Hour})

	for _, r := range rows {
		assert.Equal(t, 120.0, r.Supply, "supply constant equals the county's daily supply")
	}
	assert.Equal(t, 10.5, rows[0].DesDemand)
	assert.Equal(t, 3.25, rows[1].UndesDemand)
}

func TestAggregate_StatewideSumsAcrossCounties(t *testing.T) {
	supply := SupplyTotal(testDaily)
	assert.Equal(t, 160.0, supply)

	rows := Aggregate(testHourly, "", supply)
	require.Len(t, rows, 3)

	assert.Equal(t, 14.5, rows[0].DesDemand, "hour 0 sums both counties")
	assert.Equal(t, 3.0, rows[0].UndesDemand)
	for _, r := range rows {
		assert.Equal(t, 160.0, r.Supply, "statewide supply is the sum of county supplies")
	}
}

func TestAggregate_UnknownCounty(t *testing.T) {
	rows := Aggregate(testHourly, "99999", SupplyFor(testDaily, "99999"))
	assert.Empty(t, rows)
}

func TestSupplyFor_UnknownCounty(t *testing.T) {
	assert.Equal(t, 0.0, SupplyFor(testDaily, "99999"))
}

func TestStacked_FixedOrder(t *testing.T) {
	rows := Aggregate(testHourly, "18097", 120)
	hours, series := Stacked(rows)

	assert.Equal(t, []int{0, 1, 23}, hours)
	require.Len(t, series, 2)
	assert.Equal(t, "Designated", series[0].Name, "Designated stacks on the bottom")
	assert.Equal(t, "Undesignated", series[1].Name)
	assert.Equal(t, []float64{10.5, 12, 8}, series[0].Values)
	assert.Equal(t, []float64{2, 3.25, 1}, series[1].Values)
}

func TestWriteCSV_Unrounded(t *testing.T) {
	rows := []Row{
		{Hour: 0, DesDemand: 10.5, UndesDemand: 2.333333, Supply: 120},
		{Hour: 1, DesDemand: 12, UndesDemand: 3.25, Supply: 120},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	want := "hour,des_demand,undes_demand,supply\n" +
		"0,10.5,2.333333,120\n" +
		"1,12,3.25,120\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "hour,des_demand,undes_demand,supply\n", buf.String())
}
