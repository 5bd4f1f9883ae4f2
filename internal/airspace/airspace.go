// Airspace conflict checking for candidate flight paths.
package airspace

import (
	"fleetops-server/internal/geo"
	"fleetops-server/internal/model"
)

// CheckConflicts evaluates every waypoint of a candidate path against the
// given geofences at the requested altitude. Inactive geofences are skipped.
// A waypoint conflicts when it falls inside the fence polygon and the
// altitude lies within the fence's vertical band, bounds inclusive.
// Conflicts accumulate in (geofence, waypoint) order with no de-duplication:
// a path crossing the same zone repeatedly yields one entry per violating
// waypoint. The check is advisory; callers refuse to commit a mission when
// HasConflicts is set.
func CheckConflicts(waypoints []model.Coordinate, altitude float64, geofences []model.Geofence) model.ConflictReport {
	conflicts := []model.Conflict{}
	for _, fence := range geofences {
		if !fence.Active {
			continue
		}
		ring := toRing(fence.Coordinates)
		for _, wp := range waypoints {
			if altitude < fence.MinAltitude || altitude > fence.MaxAltitude {
				continue
			}
			if !geo.PointInPolygon(geo.Point{Lat: wp.Lat, Lng: wp.Lng}, ring) {
				continue
			}
			conflicts = append(conflicts, model.Conflict{
				GeofenceID:   fence.ID,
				GeofenceName: fence.Name,
				Type:         fence.Type,
				Waypoint:     wp,
			})
		}
	}
	return model.ConflictReport{
		HasConflicts: len(conflicts) > 0,
		Conflicts:    conflicts,
	}
}

// InsideFence reports whether a single position violates the fence at the
// given altitude. Used by the live geofence-violation alert rule.
func InsideFence(p model.Coordinate, altitude float64, fence model.Geofence) bool {
	if !fence.Active {
		return false
	}
	if altitude < fence.MinAltitude || altitude > fence.MaxAltitude {
		return false
	}
	return geo.PointInPolygon(geo.Point{Lat: p.Lat, Lng: p.Lng}, toRing(fence.Coordinates))
}

func toRing(coords []model.Coordinate) []geo.Point {
	ring := make([]geo.Point, len(coords))
	for i, c := range coords {
		ring[i] = geo.Point{Lat: c.Lat, Lng: c.Lng}
	}
	return ring
}
