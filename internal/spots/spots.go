// Package spots indexes the truck-spot overlay points so counties can report
// how many mapped spots they contain and the API can answer nearest-spot
// queries.
package spots

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/umahmood/haversine"

	"github.com/danwashburn/truck-parking-dashboard/internal/county"
	"github.com/danwashburn/truck-parking-dashboard/internal/geo"
)

// spotExtent is the degenerate rect side length for a point entry.
const spotExtent = 1e-6

// Spot is one indexed parking-spot point.
type Spot struct {
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (s *Spot) Bounds() rtreego.Rect { return s.rect }

// Index is an r-tree over the overlay's point features.
type Index struct {
	tree  *rtreego.Rtree
	spots []*Spot
}

// NewIndex builds the index from the spots overlay. Features whose
// coordinates fail to decode are skipped. A nil collection yields an empty
// index.
func NewIndex(fc *geo.FeatureCollection) *Index {
	idx := &Index{tree: rtreego.NewTree(2, 2, 16)}
	if fc == nil {
		return idx
	}
	for i := range fc.Features {
		g := fc.Features[i].Geometry
		if g == nil || g.Type != "Point" {
			continue
		}
		p, err := g.PointCoords()
		if err != nil {
			continue
		}
		rect, err := rtreego.NewRect(rtreego.Point{p.Lon, p.Lat}, []float64{spotExtent, spotExtent})
		if err != nil {
			continue
		}
		spot := &Spot{Lon: p.Lon, Lat: p.Lat, rect: rect}
		idx.tree.Insert(spot)
		idx.spots = append(idx.spots, spot)
	}
	return idx
}

// Len reports the number of indexed spots.
func (idx *Index) Len() int { return len(idx.spots) }

// CountByCounty assigns each spot to the county polygon containing it,
// using the r-tree against each county's bounding box before the exact
// point-in-polygon test. Counties whose geometry fails to decode count zero.
func (idx *Index) CountByCounty(counties []county.County) map[string]int {
	counts := make(map[string]int, len(counties))
	for _, c := range counties {
		counts[c.FIPS] = 0
		if c.Feature == nil || c.Feature.Geometry == nil {
			continue
		}
		polys, err := c.Feature.Geometry.PolygonRings()
		if err != nil {
			continue
		}
		bbox := geo.Bounds(polys)
		rect, err := rtreego.NewRect(
			rtreego.Point{bbox.MinLon, bbox.MinLat},
			[]float64{math.Max(bbox.MaxLon-bbox.MinLon, spotExtent), math.Max(bbox.MaxLat-bbox.MinLat, spotExtent)},
		)
		if err != nil {
			continue
		}
		for _, item := range idx.tree.SearchIntersect(rect) {
			s := item.(*Spot)
			if geo.PolygonsContain(polys, geo.Point{Lon: s.Lon, Lat: s.Lat}) {
				counts[c.FIPS]++
			}
		}
	}
	return counts
}

// Neighbor is a nearest-spot result with its great-circle distance.
type Neighbor struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
	Km  float64 `json:"km"`
}

// Nearest returns the k spots closest to the given coordinate, nearest first.
// Distances are exact haversine kilometers, so results near the r-tree's
// rectangular cutoff still order correctly.
func (idx *Index) Nearest(lat, lon float64, k int) []Neighbor {
	if k <= 0 || len(idx.spots) == 0 {
		return nil
	}
	items := idx.tree.NearestNeighbors(k, rtreego.Point{lon, lat})

	neighbors := make([]Neighbor, 0, len(items))
	origin := haversine.Coord{Lat: lat, Lon: lon}
	for _, item := range items {
		if item == nil {
			continue
		}
		s := item.(*Spot)
		_, km := haversine.Distance(origin, haversine.Coord{Lat: s.Lat, Lon: s.Lon})
		neighbors = append(neighbors, Neighbor{Lon: s.Lon, Lat: s.Lat, Km: km})
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].Km < neighbors[j].Km })
	return neighbors
}
