package county

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosisColor_KnownLabels(t *testing.T) {
	assert.Equal(t, "#f03b20", DiagnosisColor(DiagNearCapacity))
	assert.Equal(t, "#fd8d3c", DiagnosisColor(DiagOverflow))
	assert.Equal(t, "#feb24c", DiagnosisColor(DiagUndesignated))
	assert.Equal(t, "#74c476", DiagnosisColor(DiagNoOverflow))
}

func TestDiagnosisColor_FallbackGray(t *testing.T) {
	assert.Equal(t, "#8c8c8c", DiagnosisColor("Something new"))
	assert.Equal(t, "#8c8c8c", DiagnosisColor(""))
}

func TestDiagnosisLegend_FixedOrder(t *testing.T) {
	legend := DiagnosisLegend()
	require.Len(t, legend, 4)
	assert.Equal(t, DiagNearCapacity, legend[0].Label)
	assert.Equal(t, DiagNoOverflow, legend[3].Label)
	assert.Equal(t, "#f03b20", legend[0].Color)
}

func county_(fips string, hasDaily bool, supply float64) County {
	return County{
		FIPS:     fips,
		HasDaily: hasDaily,
		Values:   map[string]float64{"supply": supply},
	}
}

func TestNewRamp_DomainFromDailyCountiesOnly(t *testing.T) {
	counties := []County{
		county_("18001", true, 10),
		county_("18003", true, 90),
		county_("18005", false, 0),
	}
	r := NewRamp(counties, "supply")
	assert.Equal(t, 10.0, r.Min)
	assert.Equal(t, 90.0, r.Max)
}

func TestNewRamp_EmptyDomain(t *testing.T) {
	r := NewRamp([]County{county_("18001", false, 0)}, "supply")
	assert.Equal(t, 0.0, r.Min)
	assert.Equal(t, 0.0, r.Max)
}

func TestRamp_ColorEndpoints(t *testing.T) {
	r := Ramp{Min: 0, Max: 100}
	assert.Equal(t, "#ffffb2", r.Color(0), "light end")
	assert.Equal(t, "#bd0026", r.Color(100), "dark end")
	assert.Equal(t, "#ffffb2", r.Color(-5), "clamped below")
	assert.Equal(t, "#bd0026", r.Color(500), "clamped above")
}

func TestRamp_DegenerateDomain(t *testing.T) {
	r := Ramp{Min: 42, Max: 42}
	assert.Equal(t, "#ffffb2", r.Color(42))
}

func TestRamp_FillColor(t *testing.T) {
	r := Ramp{Min: 0, Max: 100}
	assert.Equal(t, "#cccccc", r.FillColor(county_("18005", false, 0), "supply"))
	assert.Equal(t, "#bd0026", r.FillColor(county_("18003", true, 100), "supply"))
}

func TestRamp_Legend(t *testing.T) {
	r := Ramp{Min: 0, Max: 100}
	legend := r.Legend()
	require.Len(t, legend, 3)
	assert.Equal(t, "0", legend[0].Label)
	assert.Equal(t, "50", legend[1].Label)
	assert.Equal(t, "100", legend[2].Label)
}
