// geo/geo.go
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/fayhaa-municipality/complaints-api/model"
)

// LocateArea returns the first area whose boundary contains the point, or nil
// when the point falls outside every boundary. Boundaries are stored as
// [lng, lat] rings matching the reference data seed.
func LocateArea(areas []*model.Area, lat, lng float64) *model.Area {
	point := orb.Point{lng, lat}
	for _, area := range areas {
		if len(area.Boundary) < 3 {
			continue
		}
		if planar.PolygonContains(boundaryPolygon(area.Boundary), point) {
			return area
		}
	}
	return nil
}

// InArea reports whether the point falls inside the given area's boundary.
func InArea(area *model.Area, lat, lng float64) bool {
	if area == nil || len(area.Boundary) < 3 {
		return false
	}
	return planar.PolygonContains(boundaryPolygon(area.Boundary), orb.Point{lng, lat})
}

func boundaryPolygon(boundary [][2]float64) orb.Polygon {
	ring := make(orb.Ring, 0, len(boundary)+1)
	for _, coord := range boundary {
		ring = append(ring, orb.Point{coord[0], coord[1]})
	}
	// Close the ring if the seed data left it open.
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}
