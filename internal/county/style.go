package county

import (
	"fmt"
	"math"
)

// Diagnosis labels are fixed upstream; anything else renders as "other".
const (
	DiagNearCapacity  = "Designated demand near supply capacity (≥85%)"
	DiagOverflow      = "Enough for designated; overflow in undesignated (total > supply)"
	DiagUndesignated  = "Enough for demand; consistent undesignated observed (total ≤ supply)"
	DiagNoOverflow    = "No overflow observed"
	diagFallbackColor = "#8c8c8c"
	missingFillColor  = "#cccccc"
)

// DiagnosisOrder fixes the legend ordering for the categorical map.
var DiagnosisOrder = []string{DiagNearCapacity, DiagOverflow, DiagUndesignated, DiagNoOverflow}

var diagnosisPalette = map[string]string{
	DiagNearCapacity: "#f03b20",
	DiagOverflow:     "#fd8d3c",
	DiagUndesignated: "#feb24c",
	DiagNoOverflow:   "#74c476",
}

// DiagnosisColor returns the fixed fill color for a diagnosis label, falling
// back to gray for unrecognized values.
func DiagnosisColor(label string) string {
	if c, ok := diagnosisPalette[label]; ok {
		return c
	}
	return diagFallbackColor
}

// LegendEntry pairs a swatch color with its label.
type LegendEntry struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// DiagnosisLegend returns the categorical legend in fixed order.
func DiagnosisLegend() []LegendEntry {
	entries := make([]LegendEntry, 0, len(DiagnosisOrder))
	for _, label := range DiagnosisOrder {
		entries = append(entries, LegendEntry{Color: diagnosisPalette[label], Label: label})
	}
	return entries
}

// YlOrRd color stops, light to dark.
var rampStops = [][3]uint8{
	{0xff, 0xff, 0xb2},
	{0xfe, 0xcc, 0x5c},
	{0xfd, 0x8d, 0x3c},
	{0xf0, 0x3b, 0x20},
	{0xbd, 0x00, 0x26},
}

// Ramp maps metric values onto the YlOrRd scale over a [min,max] domain.
type Ramp struct {
	Min float64
	Max float64
}

// NewRamp computes the domain of a metric across counties that have daily
// data. Counties without daily data do not shape the scale.
func NewRamp(counties []County, metricKey string) Ramp {
	r := Ramp{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, c := range counties {
		if !c.HasDaily {
			continue
		}
		v := c.Values[metricKey]
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	if math.IsInf(r.Min, 1) {
		r.Min, r.Max = 0, 0
	}
	return r
}

// Color returns the hex fill for a value within the ramp domain.
func (r Ramp) Color(v float64) string {
	t := 0.0
	if r.Max > r.Min {
		t = (v - r.Min) / (r.Max - r.Min)
	}
	t = math.Max(0, math.Min(1, t))

	scaled := t * float64(len(rampStops)-1)
	i := int(scaled)
	if i >= len(rampStops)-1 {
		return hex(rampStops[len(rampStops)-1])
	}
	frac := scaled - float64(i)
	a, b := rampStops[i], rampStops[i+1]
	return hex([3]uint8{
		lerp(a[0], b[0], frac),
		lerp(a[1], b[1], frac),
		lerp(a[2], b[2], frac),
	})
}

// FillColor resolves the choropleth fill for one county: ramp color when daily
// data exists, gray otherwise.
func (r Ramp) FillColor(c County, metricKey string) string {
	if !c.HasDaily {
		return missingFillColor
	}
	return r.Color(c.Values[metricKey])
}

// Legend returns min / mid / max swatches for the continuous scale.
func (r Ramp) Legend() []LegendEntry {
	mid := (r.Min + r.Max) / 2
	return []LegendEntry{
		{Color: r.Color(r.Min), Label: fmt.Sprintf("%.0f", r.Min)},
		{Color: r.Color(mid), Label: fmt.Sprintf("%.0f", mid)},
		{Color: r.Color(r.Max), Label: fmt.Sprintf("%.0f", r.Max)},
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func hex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
