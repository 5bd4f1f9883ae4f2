// Point-in-polygon and bounding-box tests over geographic coordinates.
package geo

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64
	Lng float64
}

// Box is a geographic bounding box.
type Box struct {
	North float64
	South float64
	East  float64
	West  float64
}

// PointInPolygon reports whether p lies inside the polygon ring using the
// even-odd ray-casting rule: a horizontal ray toward +infinity longitude is
// cast from p and ring-edge crossings are counted. The ring does not need
// to repeat its first vertex. A point exactly on an edge is
// implementation-defined; no epsilon is applied, so points extremely close
// to an edge are sensitive to floating-point rounding.
func PointInPolygon(p Point, ring []Point) bool {
	inside := false
	x, y := p.Lng, p.Lat
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// BoundingBox returns the extrema of points. An empty input yields the
// inverted default box (North=-90, South=90, East=-180, West=180).
func BoundingBox(points []Point) Box {
	b := Box{North: -90, South: 90, East: -180, West: 180}
	for _, p := range points {
		if p.Lat > b.North {
			b.North = p.Lat
		}
		if p.Lat < b.South {
			b.South = p.Lat
		}
		if p.Lng > b.East {
			b.East = p.Lng
		}
		if p.Lng < b.West {
			b.West = p.Lng
		}
	}
	return b
}

// Contains reports whether p falls within the box, bounds inclusive.
func (b Box) Contains(p Point) bool {
	return p.Lat <= b.North && p.Lat >= b.South && p.Lng <= b.East && p.Lng >= b.West
}
