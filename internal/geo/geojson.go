// Package geo holds the minimal GeoJSON model the dashboard needs: feature
// collections with opaque coordinates for pass-through rendering, plus the
// coordinate decoding used for spatial lookups.
package geo

import (
	"encoding/json"
	"fmt"
	"os"
)

// Geometry mirrors the GeoJSON geometry object. Coordinates stay raw so
// features can round-trip to the browser without loss.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature is a single GeoJSON feature with free-form properties.
type Feature struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   *Geometry              `json:"geometry"`
}

// FeatureCollection is the top-level GeoJSON document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// ReadFile parses a GeoJSON FeatureCollection from disk.
func ReadFile(path string) (*FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fc, nil
}

// PropString returns a string property, or "" when absent or non-string.
func (f *Feature) PropString(key string) string {
	if f.Properties == nil {
		return ""
	}
	if s, ok := f.Properties[key].(string); ok {
		return s
	}
	return ""
}

// Point is a lon/lat coordinate pair.
type Point struct {
	Lon float64
	Lat float64
}

// PointCoords decodes a Point geometry.
func (g *Geometry) PointCoords() (Point, error) {
	var c []float64
	if err := json.Unmarshal(g.Coordinates, &c); err != nil {
		return Point{}, err
	}
	if len(c) < 2 {
		return Point{}, fmt.Errorf("point has %d coordinates", len(c))
	}
	return Point{Lon: c[0], Lat: c[1]}, nil
}

// PolygonRings decodes Polygon and MultiPolygon geometries into a flat list
// of polygons, each a list of rings (outer first, then holes).
func (g *Geometry) PolygonRings() ([][][]Point, error) {
	switch g.Type {
	case "Polygon":
		var raw [][][]float64
		if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
			return nil, err
		}
		return [][][]Point{toRings(raw)}, nil
	case "MultiPolygon":
		var raw [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
			return nil, err
		}
		polys := make([][][]Point, 0, len(raw))
		for _, p := range raw {
			polys = append(polys, toRings(p))
		}
		return polys, nil
	default:
		return nil, fmt.Errorf("unsupported polygon type %q", g.Type)
	}
}

func toRings(raw [][][]float64) [][]Point {
	rings := make([][]Point, 0, len(raw))
	for _, ring := range raw {
		pts := make([]Point, 0, len(ring))
		for _, c := range ring {
			if len(c) >= 2 {
				pts = append(pts, Point{Lon: c[0], Lat: c[1]})
			}
		}
		rings = append(rings, pts)
	}
	return rings
}

// PointsOnly keeps features whose geometry is a Point.
func PointsOnly(fc *FeatureCollection) *FeatureCollection {
	return filter(fc, func(g *Geometry) bool { return g.Type == "Point" })
}

// LinesOnly keeps features whose geometry is a LineString or MultiLineString.
func LinesOnly(fc *FeatureCollection) *FeatureCollection {
	return filter(fc, func(g *Geometry) bool {
		return g.Type == "LineString" || g.Type == "MultiLineString"
	})
}

func filter(fc *FeatureCollection, keep func(*Geometry) bool) *FeatureCollection {
	out := &FeatureCollection{Type: "FeatureCollection"}
	for _, f := range fc.Features {
		if f.Geometry != nil && keep(f.Geometry) {
			out.Features = append(out.Features, f)
		}
	}
	return out
}
