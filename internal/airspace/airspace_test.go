package airspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetops-server/internal/model"
)

// airportZone mirrors the seeded no-fly square:
// 0.01°x0.01° at (37.7849,-122.4394)-(37.7949,-122.4194), band [0,400].
func airportZone() model.Geofence {
	return model.Geofence{
		ID:   "gf-airport",
		Name: "Airport No-Fly Zone",
		Type: model.FenceNoFly,
		Coordinates: []model.Coordinate{
			{Lat: 37.7849, Lng: -122.4394},
			{Lat: 37.7949, Lng: -122.4394},
			{Lat: 37.7949, Lng: -122.4194},
			{Lat: 37.7849, Lng: -122.4194},
		},
		MinAltitude: 0,
		MaxAltitude: 400,
		Active:      true,
	}
}

func TestCheckConflictsSingleViolation(t *testing.T) {
	report := CheckConflicts(
		[]model.Coordinate{{Lat: 37.79, Lng: -122.43}},
		100,
		[]model.Geofence{airportZone()},
	)

	require.True(t, report.HasConflicts)
	require.Len(t, report.Conflicts, 1)
	c := report.Conflicts[0]
	assert.Equal(t, "gf-airport", c.GeofenceID)
	assert.Equal(t, "Airport No-Fly Zone", c.GeofenceName)
	assert.Equal(t, model.FenceNoFly, c.Type)
	assert.Equal(t, model.Coordinate{Lat: 37.79, Lng: -122.43}, c.Waypoint)
}

func TestCheckConflictsNoActiveFences(t *testing.T) {
	fence := airportZone()
	fence.Active = false
	report := CheckConflicts(
		[]model.Coordinate{{Lat: 37.79, Lng: -122.43}, {Lat: 37.791, Lng: -122.431}},
		100,
		[]model.Geofence{fence},
	)
	assert.False(t, report.HasConflicts)
	assert.Empty(t, report.Conflicts)

	report = CheckConflicts([]model.Coordinate{{Lat: 37.79, Lng: -122.43}}, 100, nil)
	assert.False(t, report.HasConflicts)
	assert.Empty(t, report.Conflicts)
}

func TestCheckConflictsAltitudeBandInclusive(t *testing.T) {
	fence := airportZone()
	fence.MinAltitude = 50
	fence.MaxAltitude = 150
	inside := []model.Coordinate{{Lat: 37.79, Lng: -122.43}}

	for _, alt := range []float64{50, 100, 150} {
		report := CheckConflicts(inside, alt, []model.Geofence{fence})
		assert.True(t, report.HasConflicts, "altitude %v is within the inclusive band", alt)
	}
	for _, alt := range []float64{49.9, 150.1} {
		report := CheckConflicts(inside, alt, []model.Geofence{fence})
		assert.False(t, report.HasConflicts, "altitude %v is outside the band", alt)
	}
}

func TestCheckConflictsOneEntryPerViolatingWaypoint(t *testing.T) {
	path := []model.Coordinate{
		{Lat: 37.79, Lng: -122.43},  // inside
		{Lat: 37.70, Lng: -122.43},  // outside
		{Lat: 37.791, Lng: -122.42}, // inside again
	}
	report := CheckConflicts(path, 100, []model.Geofence{airportZone()})
	require.Len(t, report.Conflicts, 2, "no de-duplication across waypoints")
	assert.Equal(t, path[0], report.Conflicts[0].Waypoint)
	assert.Equal(t, path[2], report.Conflicts[1].Waypoint)
}

func TestCheckConflictsEnumerationOrder(t *testing.T) {
	second := airportZone()
	second.ID = "gf-2"
	second.Name = "Shifted Zone"
	wp := model.Coordinate{Lat: 37.79, Lng: -122.43}

	report := CheckConflicts([]model.Coordinate{wp}, 100, []model.Geofence{airportZone(), second})
	require.Len(t, report.Conflicts, 2)
	assert.Equal(t, "gf-airport", report.Conflicts[0].GeofenceID)
	assert.Equal(t, "gf-2", report.Conflicts[1].GeofenceID)
}

func TestInsideFence(t *testing.T) {
	fence := airportZone()
	assert.True(t, InsideFence(model.Coordinate{Lat: 37.79, Lng: -122.43}, 100, fence))
	assert.False(t, InsideFence(model.Coordinate{Lat: 37.79, Lng: -122.43}, 500, fence), "above the band")
	assert.False(t, InsideFence(model.Coordinate{Lat: 37.70, Lng: -122.43}, 100, fence), "outside the ring")

	fence.Active = false
	assert.False(t, InsideFence(model.Coordinate{Lat: 37.79, Lng: -122.43}, 100, fence))
}
