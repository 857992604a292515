package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geom(t *testing.T, typ, coords string) *Geometry {
	t.Helper()
	return &Geometry{Type: typ, Coordinates: json.RawMessage(coords)}
}

func TestPointCoords(t *testing.T) {
	p, err := geom(t, "Point", `[-86.3, 39.9]`).PointCoords()
	require.NoError(t, err)
	assert.Equal(t, Point{Lon: -86.3, Lat: 39.9}, p)
}

func TestPointCoords_TooShort(t *testing.T) {
	_, err := geom(t, "Point", `[-86.3]`).PointCoords()
	require.Error(t, err)
}

func TestPolygonRings_Polygon(t *testing.T) {
	g := geom(t, "Polygon", `[[[0,0],[4,0],[4,4],[0,4],[0,0]]]`)
	polys, err := g.PolygonRings()
	require.NoError(t, err)
	require.Len(t, polys, 1)
	require.Len(t, polys[0], 1)
	assert.Len(t, polys[0][0], 5)
}

func TestPolygonRings_MultiPolygon(t *testing.T) {
	g := geom(t, "MultiPolygon", `[[[[0,0],[1,0],[1,1],[0,0]]],[[[5,5],[6,5],[6,6],[5,5]]]]`)
	polys, err := g.PolygonRings()
	require.NoError(t, err)
	assert.Len(t, polys, 2)
}

func TestPolygonRings_UnsupportedType(t *testing.T) {
	_, err := geom(t, "LineString", `[[0,0],[1,1]]`).PolygonRings()
	require.Error(t, err)
}

func TestPolygonsContain(t *testing.T) {
	square := [][][]Point{{{
		{Lon: 0, Lat: 0}, {Lon: 4, Lat: 0}, {Lon: 4, Lat: 4}, {Lon: 0, Lat: 4}, {Lon: 0, Lat: 0},
	}}}

	assert.True(t, PolygonsContain(square, Point{Lon: 2, Lat: 2}))
	assert.False(t, PolygonsContain(square, Point{Lon: 5, Lat: 2}))
	assert.False(t, PolygonsContain(square, Point{Lon: -1, Lat: -1}))
}

func TestPolygonsContain_Hole(t *testing.T) {
	donut := [][][]Point{{
		{{Lon: 0, Lat: 0}, {Lon: 10, Lat: 0}, {Lon: 10, Lat: 10}, {Lon: 0, Lat: 10}, {Lon: 0, Lat: 0}},
		{{Lon: 4, Lat: 4}, {Lon: 6, Lat: 4}, {Lon: 6, Lat: 6}, {Lon: 4, Lat: 6}, {Lon: 4, Lat: 4}},
	}}

	assert.True(t, PolygonsContain(donut, Point{Lon: 2, Lat: 2}))
	assert.False(t, PolygonsContain(donut, Point{Lon: 5, Lat: 5}), "point in hole")
}

func TestBounds(t *testing.T) {
	polys := [][][]Point{{{
		{Lon: -87.5, Lat: 38.2}, {Lon: -85.1, Lat: 38.2}, {Lon: -85.1, Lat: 41.7}, {Lon: -87.5, Lat: 41.7},
	}}}
	b := Bounds(polys)
	assert.Equal(t, -87.5, b.MinLon)
	assert.Equal(t, -85.1, b.MaxLon)
	assert.Equal(t, 38.2, b.MinLat)
	assert.Equal(t, 41.7, b.MaxLat)
	assert.True(t, b.Contains(Point{Lon: -86, Lat: 39.9}))
	assert.False(t, b.Contains(Point{Lon: -84, Lat: 39.9}))
}

func TestFilters(t *testing.T) {
	fc := &FeatureCollection{Type: "FeatureCollection", Features: []Feature{
		{Type: "Feature", Geometry: geom(t, "Point", `[1,2]`)},
		{Type: "Feature", Geometry: geom(t, "LineString", `[[0,0],[1,1]]`)},
		{Type: "Feature", Geometry: geom(t, "MultiLineString", `[[[0,0],[1,1]]]`)},
		{Type: "Feature", Geometry: geom(t, "Polygon", `[[[0,0],[1,0],[1,1],[0,0]]]`)},
		{Type: "Feature", Geometry: nil},
	}}

	assert.Len(t, PointsOnly(fc).Features, 1)
	assert.Len(t, LinesOnly(fc).Features, 2)
}

func TestPropString(t *testing.T) {
	f := &Feature{Properties: map[string]interface{}{"county_fips": "18097", "supply": 12.0}}
	assert.Equal(t, "18097", f.PropString("county_fips"))
	assert.Equal(t, "", f.PropString("supply"))
	assert.Equal(t, "", f.PropString("missing"))

	empty := &Feature{}
	assert.Equal(t, "", empty.PropString("county_fips"))
}
