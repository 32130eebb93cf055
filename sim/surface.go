package sim

import (
	m "math"

	"accd.dev/accd/acc"
	mv "accd.dev/accd/math"
)

// StripMap is a straight road along +X. The driving band spans
// [-HalfWidth, HalfWidth] in Y, flanked by sidewalk bands; beyond those
// there is no surface at all. Optional segments along X cut a gap in the
// surface or narrow the lane, which is enough to exercise every boundary
// case the evaluator distinguishes.
type StripMap struct {
	Length    float64 // road runs from X=0 to X=Length
	HalfWidth float64
	LaneWidth float64

	SidewalkWidth float64

	// no surface resolves inside [GapStart, GapEnd) when GapEnd > GapStart
	GapStart float64
	GapEnd   float64

	// lane width shrinks to NarrowWidth inside [NarrowStart, NarrowEnd)
	NarrowStart float64
	NarrowEnd   float64
	NarrowWidth float64
}

func DefaultStripMap() *StripMap {
	return &StripMap{
		Length:        2000,
		HalfWidth:     3.5,
		LaneWidth:     3.5,
		SidewalkWidth: 2.0,
	}
}

func (s *StripMap) inGap(x float64) bool {
	return s.GapEnd > s.GapStart && x >= s.GapStart && x < s.GapEnd
}

func (s *StripMap) widthAt(x float64) float64 {
	if s.NarrowEnd > s.NarrowStart && x >= s.NarrowStart && x < s.NarrowEnd {
		return s.NarrowWidth
	}
	return s.LaneWidth
}

func (s *StripMap) ResolvePoint(loc mv.Vector3, project bool) (acc.SurfacePoint, bool) {
	onRoadX := loc.X >= 0 && loc.X <= s.Length && !s.inGap(loc.X)
	absY := m.Abs(loc.Y)

	if onRoadX && absY <= s.HalfWidth {
		return acc.SurfacePoint{
			Location:  mv.Vector3{X: loc.X, Y: loc.Y},
			Lane:      acc.LaneDriving,
			LaneWidth: s.widthAt(loc.X),
		}, true
	}

	if onRoadX && absY <= s.HalfWidth+s.SidewalkWidth {
		return acc.SurfacePoint{
			Location:  mv.Vector3{X: loc.X, Y: loc.Y},
			Lane:      acc.LaneSidewalk,
			LaneWidth: s.SidewalkWidth,
		}, true
	}

	if !project {
		return acc.SurfacePoint{}, false
	}

	// project onto the nearest point of the driving band
	x := mv.Clamp(loc.X, 0.0, s.Length)
	if s.inGap(x) {
		// snap to whichever gap edge is closer
		if loc.X-s.GapStart < s.GapEnd-loc.X {
			x = s.GapStart
		} else {
			x = s.GapEnd
		}
		if x > s.Length {
			return acc.SurfacePoint{}, false
		}
	}
	y := mv.Clamp(loc.Y, -s.HalfWidth, s.HalfWidth)

	return acc.SurfacePoint{
		Location:  mv.Vector3{X: x, Y: y},
		Lane:      acc.LaneDriving,
		LaneWidth: s.widthAt(x),
	}, true
}
