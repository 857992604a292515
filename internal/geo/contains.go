package geo

// BBox is an axis-aligned bounding box in lon/lat.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Contains reports whether the point lies inside the box.
func (b BBox) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Bounds computes the bounding box over a set of polygons.
func Bounds(polys [][][]Point) BBox {
	b := BBox{MinLon: 180, MinLat: 90, MaxLon: -180, MaxLat: -90}
	for _, poly := range polys {
		for _, ring := range poly {
			for _, p := range ring {
				if p.Lon < b.MinLon {
					b.MinLon = p.Lon
				}
				if p.Lon > b.MaxLon {
					b.MaxLon = p.Lon
				}
				if p.Lat < b.MinLat {
					b.MinLat = p.Lat
				}
				if p.Lat > b.MaxLat {
					b.MaxLat = p.Lat
				}
			}
		}
	}
	return b
}

// PolygonsContain reports whether the point falls inside any polygon,
// treating rings after the first of each polygon as holes.
func PolygonsContain(polys [][][]Point, p Point) bool {
	for _, poly := range polys {
		if len(poly) == 0 {
			continue
		}
		if !ringContains(poly[0], p) {
			continue
		}
		inHole := false
		for _, hole := range poly[1:] {
			if ringContains(hole, p) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// ringContains is a standard ray cast along +lon.
func ringContains(ring []Point, p Point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) &&
			p.Lon < (b.Lon-a.Lon)*(p.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lon {
			inside = !inside
		}
	}
	return inside
}
