// Package osmmap answers drivable-surface queries from OpenStreetMap
// extracts. Ways from a .osm.pbf file are projected onto a local plane
// around a configured origin, which keeps the per-tick nearest-segment
// search in plain meters.
package osmmap

import (
	"context"
	stdmath "math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"

	"accd.dev/accd/acc"
	mv "accd.dev/accd/math"
)

const (
	metersPerDegree  = 111319.9
	defaultLaneWidth = 3.5
)

type Road struct {
	Name      string
	Lane      acc.LaneType
	LaneWidth float64
	HalfWidth float64
	Points    []mv.Vector3
}

type RoadMap struct {
	roads []Road
}

// projection around the configured origin, equirectangular
type projector struct {
	originLat float64
	originLon float64
	lonScale  float64
}

func newProjector(originLat, originLon float64) projector {
	return projector{
		originLat: originLat,
		originLon: originLon,
		lonScale:  stdmath.Cos(originLat * stdmath.Pi / 180),
	}
}

func (p projector) toLocal(lat, lon float64) mv.Vector3 {
	return mv.Vector3{
		X: (lon - p.originLon) * metersPerDegree * p.lonScale,
		Y: (lat - p.originLat) * metersPerDegree,
	}
}

func Load(path string, originLat, originLon float64) (*RoadMap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open map pbf file")
	}
	defer file.Close()

	scanner := osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	scanner.SkipRelations = true
	defer scanner.Close()

	proj := newProjector(originLat, originLon)
	m := &RoadMap{}

	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || len(way.Nodes) < 2 {
			continue
		}
		tags := way.TagMap()
		lane, ok := classify(tags)
		if !ok {
			continue
		}

		road := Road{
			Name:      tags["name"],
			Lane:      lane,
			LaneWidth: laneWidth(tags),
			Points:    make([]mv.Vector3, len(way.Nodes)),
		}
		road.HalfWidth = roadHalfWidth(tags, road.LaneWidth)
		for i, n := range way.Nodes {
			road.Points[i] = proj.toLocal(n.Lat, n.Lon)
		}
		m.roads = append(m.roads, road)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "could not scan map pbf file")
	}
	if len(m.roads) == 0 {
		return nil, errors.New("map contains no usable ways")
	}
	return m, nil
}

// classify maps the highway tag onto a lane type. Ways that are not part
// of the traversable network at all are skipped.
func classify(tags map[string]string) (acc.LaneType, bool) {
	highway := tags["highway"]
	if highway == "" {
		return 0, false
	}
	switch highway {
	case "footway", "path", "pedestrian", "steps", "cycleway":
		return acc.LaneSidewalk, true
	case "construction", "proposed":
		return acc.LaneRestricted, true
	case "bus_guideway", "busway":
		return acc.LaneRestricted, true
	}
	if tags["access"] == "private" || tags["access"] == "no" {
		return acc.LaneRestricted, true
	}
	if highway == "service" && tags["service"] == "parking_aisle" {
		return acc.LaneShoulder, true
	}
	return acc.LaneDriving, true
}

func laneWidth(tags map[string]string) float64 {
	lanes, _ := strconv.ParseUint(tags["lanes"], 10, 8)
	if w := parseMeters(tags["width"]); w > 0 {
		if lanes > 1 {
			return w / float64(lanes)
		}
		return w
	}
	return defaultLaneWidth
}

func roadHalfWidth(tags map[string]string, laneWidth float64) float64 {
	lanes, _ := strconv.ParseUint(tags["lanes"], 10, 8)
	if lanes == 0 {
		lanes = 1
	}
	return laneWidth * float64(lanes) / 2
}

func parseMeters(raw string) float64 {
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "m"))
	if raw == "" {
		return 0
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return w
}

func distanceToSegment(p, a, b mv.Vector3) (float64, mv.Vector3) {
	ab := b.Subtract(a)
	length2 := ab.DotXY(ab)
	if length2 == 0 {
		return p.Subtract(a).LengthXY(), a
	}
	t := mv.Clamp(p.Subtract(a).DotXY(ab)/length2, 0.0, 1.0)
	closest := a.Add(ab.Scale(t))
	return p.Subtract(closest).LengthXY(), closest
}

func (m *RoadMap) nearest(loc mv.Vector3) (*Road, mv.Vector3, float64) {
	best := stdmath.Inf(1)
	var bestRoad *Road
	var bestPoint mv.Vector3
	for i := range m.roads {
		road := &m.roads[i]
		for j := 0; j+1 < len(road.Points); j++ {
			d, closest := distanceToSegment(loc, road.Points[j], road.Points[j+1])
			if d < best {
				best = d
				bestRoad = road
				bestPoint = closest
			}
		}
	}
	return bestRoad, bestPoint, best
}

func (m *RoadMap) ResolvePoint(loc mv.Vector3, project bool) (acc.SurfacePoint, bool) {
	road, closest, distance := m.nearest(loc)
	if road == nil {
		return acc.SurfacePoint{}, false
	}
	if distance <= road.HalfWidth {
		return acc.SurfacePoint{
			Location:  mv.Vector3{X: loc.X, Y: loc.Y},
			Lane:      road.Lane,
			LaneWidth: road.LaneWidth,
		}, true
	}
	if !project {
		return acc.SurfacePoint{}, false
	}
	return acc.SurfacePoint{
		Location:  closest,
		Lane:      road.Lane,
		LaneWidth: road.LaneWidth,
	}, true
}

func (m *RoadMap) RoadCount() int {
	return len(m.roads)
}
