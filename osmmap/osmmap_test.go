package osmmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accd.dev/accd/acc"
	mv "accd.dev/accd/math"
)

func testMap() *RoadMap {
	return &RoadMap{roads: []Road{
		{
			Name:      "Main Street",
			Lane:      acc.LaneDriving,
			LaneWidth: 3.5,
			HalfWidth: 3.5,
			Points:    []mv.Vector3{{X: 0}, {X: 500}},
		},
		{
			Name:      "Main Street sidewalk",
			Lane:      acc.LaneSidewalk,
			LaneWidth: 2,
			HalfWidth: 1,
			Points:    []mv.Vector3{{X: 0, Y: 5}, {X: 500, Y: 5}},
		},
	}}
}

func TestResolveOnRoad(t *testing.T) {
	m := testMap()
	p, ok := m.ResolvePoint(mv.Vector3{X: 100, Y: 1}, false)
	require.True(t, ok)
	assert.Equal(t, acc.LaneDriving, p.Lane)
	assert.Equal(t, 3.5, p.LaneWidth)
}

func TestResolvePrefersNearestWay(t *testing.T) {
	m := testMap()
	p, ok := m.ResolvePoint(mv.Vector3{X: 100, Y: 4.8}, false)
	require.True(t, ok)
	assert.Equal(t, acc.LaneSidewalk, p.Lane)
}

func TestResolveOffSurface(t *testing.T) {
	m := testMap()
	_, ok := m.ResolvePoint(mv.Vector3{X: 100, Y: 30}, false)
	assert.False(t, ok)

	p, ok := m.ResolvePoint(mv.Vector3{X: 100, Y: 30}, true)
	require.True(t, ok)
	assert.InDelta(t, 5.0, p.Location.Y, 1e-9)
	assert.InDelta(t, 100.0, p.Location.X, 1e-9)
}

func TestResolveBeyondWayEndProjectsToEndpoint(t *testing.T) {
	m := testMap()
	p, ok := m.ResolvePoint(mv.Vector3{X: 600, Y: 0}, true)
	require.True(t, ok)
	assert.InDelta(t, 500.0, p.Location.X, 1e-9)
}

func TestClassify(t *testing.T) {
	lane, ok := classify(map[string]string{"highway": "residential"})
	require.True(t, ok)
	assert.Equal(t, acc.LaneDriving, lane)

	lane, ok = classify(map[string]string{"highway": "footway"})
	require.True(t, ok)
	assert.Equal(t, acc.LaneSidewalk, lane)

	lane, ok = classify(map[string]string{"highway": "residential", "access": "private"})
	require.True(t, ok)
	assert.Equal(t, acc.LaneRestricted, lane)

	_, ok = classify(map[string]string{"building": "yes"})
	assert.False(t, ok)
}

func TestLaneWidthFromTags(t *testing.T) {
	assert.Equal(t, 3.5, laneWidth(map[string]string{}))
	assert.InDelta(t, 3.0, laneWidth(map[string]string{"width": "6", "lanes": "2"}), 1e-9)
	assert.InDelta(t, 4.0, laneWidth(map[string]string{"width": "4 m"}), 1e-9)
	assert.Equal(t, 3.5, laneWidth(map[string]string{"width": "wide"}))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.osm.pbf", 0, 0)
	assert.Error(t, err)
}
