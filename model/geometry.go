package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Distance is the straight-line distance in map pixels.
func Distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

func containsPoint(shape orb.Polygon, p orb.Point) bool {
	return planar.PolygonContains(shape, p)
}

// Box returns an axis-aligned rectangular polygon, handy for simple region maps.
func Box(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}}
}
