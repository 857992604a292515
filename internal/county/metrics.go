// Package county joins the daily metrics table onto county boundaries and
// derives everything the map needs: filled metric values, rounded display
// copies, diagnosis colors, and the numeric choropleth ramp.
package county

// Metric describes one numeric daily metric shown on the map selector and in
// tooltips.
type Metric struct {
	Key   string
	Label string
}

// DiagnosisKey is the selector value for the categorical diagnosis map.
const DiagnosisKey = "diagnosis"

// Metrics lists the eleven numeric daily metrics in fixed display order.
var Metrics = []Metric{
	{Key: "max_hourly_des_demand", Label: "Max hourly designated demand"},
	{Key: "max_hourly_undes_demand", Label: "Max hourly undesignated demand"},
	{Key: "max_hourly_total_demand", Label: "Max hourly total demand"},
	{Key: "acc_des_demand", Label: "Acc. designated demand (truck-hours)"},
	{Key: "acc_undes_demand", Label: "Acc. undesignated demand (truck-hours)"},
	{Key: "acc_total_demand", Label: "Acc. total demand (truck-hours)"},
	{Key: "supply", Label: "Supply (hourly fixed)"},
	{Key: "max_hourly_des_deficit", Label: "Max hourly designated deficit"},
	{Key: "max_hourly_total_deficit", Label: "Max hourly total deficit"},
	{Key: "acc_des_deficit", Label: "Acc. designated deficit (truck-hours)"},
	{Key: "acc_total_deficit", Label: "Acc. total deficit (truck-hours)"},
}

// MetricByKey returns the metric definition for key, or false when the key is
// not one of the known numeric metrics.
func MetricByKey(key string) (Metric, bool) {
	for _, m := range Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}
