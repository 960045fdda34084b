// Package geometry turns the corner coordinates found in metadata packages
// into simple, closed footprint rings.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/venicegeo/bf-acquisition-ingest/model"
)

// ErrDegenerateFootprint is returned when no vertex ordering yields a simple polygon
var ErrDegenerateFootprint = errors.New("degenerate footprint")

// ErrIncompleteGrid is returned when grid extrema do not select all four corners
var ErrIncompleteGrid = errors.New("incomplete tie point grid")

// quadOrderings are tried in priority order. Together they cover the three
// inequivalent cyclic orders of four points.
var quadOrderings = [][4]int{
	{0, 1, 2, 3},
	{0, 2, 1, 3},
	{0, 2, 3, 1},
	{0, 3, 2, 1},
	{0, 3, 1, 2},
}

// area2 is twice the signed area of triangle abc
func area2(a, b, c orb.Point) float64 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (c.X()-a.X())*(b.Y()-a.Y())
}

func isLeft(a, b, c orb.Point) bool {
	return area2(a, b, c) > 0
}

func isColinear(a, b, c orb.Point) bool {
	return area2(a, b, c) == 0
}

// properlyIntersect reports whether segments ab and cd cross at a single
// interior point. Touching and colinear configurations are not crossings.
func properlyIntersect(a, b, c, d orb.Point) bool {
	if isColinear(a, b, c) || isColinear(a, b, d) || isColinear(c, d, a) || isColinear(c, d, b) {
		return false
	}
	return (isLeft(a, b, c) != isLeft(a, b, d)) && (isLeft(c, d, a) != isLeft(c, d, b))
}

// SelfIntersects reports whether any two non-adjacent edges of the ring cross.
// A closing point equal to the first one is ignored; fewer than three
// vertices always count as self-intersecting.
func SelfIntersects(ring []orb.Point) bool {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	if n < 3 {
		return true
	}

	for i := 0; i < n; i++ {
		a, b := i, (i+1)%n
		for j := 0; j < n; j++ {
			c, d := j, (j+1)%n
			if j == a || j == b || d == a {
				continue
			}
			if properlyIntersect(ring[a], ring[b], ring[c], ring[d]) {
				return true
			}
		}
	}
	return false
}

func distinctPoints(points []orb.Point) []orb.Point {
	seen := make(map[orb.Point]struct{}, len(points))
	distinct := make([]orb.Point, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			distinct = append(distinct, p)
		}
	}
	return distinct
}

// checkDegenerate rejects vertex sets that cannot bound an area: fewer than
// three distinct points, or all of them on one line.
func checkDegenerate(points []orb.Point) error {
	distinct := distinctPoints(points)
	if len(distinct) < 3 {
		return errors.Wrapf(ErrDegenerateFootprint, "fewer than 3 distinct vertices in %v", points)
	}
	for i := 2; i < len(distinct); i++ {
		if !isColinear(distinct[0], distinct[1], distinct[i]) {
			return nil
		}
	}
	return errors.Wrapf(ErrDegenerateFootprint, "colinear vertices %v", points)
}

// CorrectQuad orders four unordered corners into a simple closed ring by
// trying a fixed list of vertex permutations.
func CorrectQuad(corners [4]orb.Point) (model.Footprint, error) {
	if err := checkDegenerate(corners[:]); err != nil {
		return nil, err
	}

	for _, order := range quadOrderings {
		candidate := []orb.Point{corners[order[0]], corners[order[1]], corners[order[2]], corners[order[3]]}
		if !SelfIntersects(candidate) {
			return model.NewFootprint(candidate...), nil
		}
	}
	return nil, errors.Wrapf(ErrDegenerateFootprint, "no simple ordering of %v", corners)
}

// GridPoint is a tie point: an image (line, pixel) position and its ground location
type GridPoint struct {
	Line     float64
	Pixel    float64
	Location orb.Point
}

type gridCorner struct {
	line, pixel float64
	found       bool
	location    orb.Point
}

func (c *gridCorner) offer(p GridPoint) {
	if p.Line != c.line || p.Pixel != c.pixel {
		return
	}
	if !c.found || lessPoint(p.Location, c.location) {
		c.location = p.Location
		c.found = true
	}
}

func lessPoint(a, b orb.Point) bool {
	if a.X() != b.X() {
		return a.X() < b.X()
	}
	return a.Y() < b.Y()
}

// CornersFromGrid assigns the footprint corners from the extrema of the
// image grid: upper-left is (min line, min pixel), upper-right (min line,
// max pixel), lower-right (max line, max pixel) and lower-left (max line,
// min pixel). The ring runs UL, UR, LR, LL, UL. The result does not depend
// on the order of the input points.
func CornersFromGrid(points []GridPoint) (model.Footprint, error) {
	if len(points) == 0 {
		return nil, errors.Wrap(ErrIncompleteGrid, "no tie points")
	}

	minLine, maxLine := math.Inf(1), math.Inf(-1)
	minPixel, maxPixel := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minLine = math.Min(minLine, p.Line)
		maxLine = math.Max(maxLine, p.Line)
		minPixel = math.Min(minPixel, p.Pixel)
		maxPixel = math.Max(maxPixel, p.Pixel)
	}

	ul := &gridCorner{line: minLine, pixel: minPixel}
	ur := &gridCorner{line: minLine, pixel: maxPixel}
	lr := &gridCorner{line: maxLine, pixel: maxPixel}
	ll := &gridCorner{line: maxLine, pixel: minPixel}
	corners := []*gridCorner{ul, ur, lr, ll}
	for _, p := range points {
		for _, corner := range corners {
			corner.offer(p)
		}
	}

	ring := make([]orb.Point, 0, 4)
	for _, corner := range corners {
		if !corner.found {
			return nil, errors.Wrapf(ErrIncompleteGrid, "no tie point at line %v pixel %v", corner.line, corner.pixel)
		}
		ring = append(ring, corner.location)
	}
	if err := checkDegenerate(ring); err != nil {
		return nil, err
	}
	return model.NewFootprint(ring...), nil
}

// PassThrough closes a vendor-ordered vertex ring without reordering it.
// A self-intersecting quad is reordered with CorrectQuad; any other
// self-intersecting ring is degenerate.
func PassThrough(points []orb.Point) (model.Footprint, error) {
	if err := checkDegenerate(points); err != nil {
		return nil, err
	}
	if !SelfIntersects(points) {
		return model.NewFootprint(points...), nil
	}

	open := points
	if len(open) > 1 && open[0] == open[len(open)-1] {
		open = open[:len(open)-1]
	}
	if len(open) == 4 {
		return CorrectQuad([4]orb.Point{open[0], open[1], open[2], open[3]})
	}
	return nil, errors.Wrapf(ErrDegenerateFootprint, "self-intersecting ring %v", points)
}
